package rawio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRawConfig(t *testing.T) {
	cfg := DefaultRawConfig()
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 12, cfg.BitDepth)
	assert.Equal(t, isp.RGGB, cfg.Pattern)
	assert.True(t, cfg.LittleEndian)
	// the network receiver's frame size
	assert.Equal(t, 614400, cfg.FrameSize())
}

func TestDecodeRaw_Endianness(t *testing.T) {
	le := RawConfig{Width: 2, Height: 1, BitDepth: 12, Pattern: isp.RGGB, LittleEndian: true}
	m, err := DecodeRaw([]byte{0xB8, 0x0B, 0xD0, 0x07}, le)
	require.NoError(t, err)
	assert.Equal(t, []uint16{3000, 2000}, m.Samples)

	be := le
	be.LittleEndian = false
	m, err = DecodeRaw([]byte{0x0B, 0xB8, 0x07, 0xD0}, be)
	require.NoError(t, err)
	assert.Equal(t, []uint16{3000, 2000}, m.Samples)
}

func TestDecodeRaw_8Bit(t *testing.T) {
	cfg := RawConfig{Width: 3, Height: 1, BitDepth: 8, Pattern: isp.RGGB}
	assert.Equal(t, 3, cfg.FrameSize())
	m, err := DecodeRaw([]byte{0, 128, 255}, cfg)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 128, 255}, m.Samples)
}

func TestDecodeRaw_Errors(t *testing.T) {
	cfg := RawConfig{Width: 2, Height: 1, BitDepth: 12, Pattern: isp.RGGB, LittleEndian: true}

	_, err := DecodeRaw([]byte{1, 2, 3}, cfg)
	assert.ErrorContains(t, err, "size mismatch")

	// 0xFFFF does not fit in 12 bits
	_, err = DecodeRaw([]byte{0xFF, 0xFF, 0, 0}, cfg)
	assert.ErrorIs(t, err, isp.ErrInvalidBuffer)

	_, err = DecodeRaw(nil, RawConfig{Width: 0, Height: 1, BitDepth: 12})
	assert.ErrorIs(t, err, isp.ErrInvalidBuffer)
}

func TestReadRaw_Short(t *testing.T) {
	cfg := RawConfig{Width: 4, Height: 4, BitDepth: 12, LittleEndian: true}
	_, err := ReadRaw(bytes.NewReader(make([]byte, 10)), cfg)
	assert.Error(t, err)
}

func TestRaw_RoundTrip(t *testing.T) {
	for _, tt := range []struct {
		name string
		bd   int
		le   bool
	}{
		{"12-bit little-endian", 12, true},
		{"16-bit big-endian", 16, false},
		{"8-bit", 8, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := RawConfig{Width: 5, Height: 3, BitDepth: tt.bd, Pattern: isp.RGGB, LittleEndian: tt.le}
			m, err := isp.NewMosaicBuffer(cfg.Width, cfg.Height, cfg.BitDepth, cfg.Pattern)
			require.NoError(t, err)
			for i := range m.Samples {
				m.Samples[i] = uint16(i*251) & m.MaxValue()
			}

			var buf bytes.Buffer
			require.NoError(t, WriteRaw(&buf, m, tt.le))
			assert.Equal(t, cfg.FrameSize(), buf.Len())

			got, err := ReadRaw(&buf, cfg)
			require.NoError(t, err)
			assert.Equal(t, m.Samples, got.Samples)
		})
	}
}

func TestSaveLoadRaw_Files(t *testing.T) {
	cfg := RawConfig{Width: 64, Height: 32, BitDepth: 12, Pattern: isp.RGGB, LittleEndian: true}
	m, err := isp.NewMosaicBuffer(cfg.Width, cfg.Height, cfg.BitDepth, cfg.Pattern)
	require.NoError(t, err)
	m.Fill(2000)
	m.Samples[17] = 4095

	dir := t.TempDir()
	for _, name := range []string{"frame.raw", "frame.raw.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, SaveRaw(path, m, true))

			got, err := LoadRaw(path, cfg)
			require.NoError(t, err)
			assert.Equal(t, m.Samples, got.Samples)
		})
	}

	plain, err := os.Stat(filepath.Join(dir, "frame.raw"))
	require.NoError(t, err)
	packed, err := os.Stat(filepath.Join(dir, "frame.raw.zst"))
	require.NoError(t, err)
	assert.Equal(t, int64(cfg.FrameSize()), plain.Size())
	assert.Less(t, packed.Size(), plain.Size())

	_, err = LoadRaw(filepath.Join(dir, "missing.raw"), cfg)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	m, err := isp.NewMosaicBufferFrom(4, 2, 12, isp.RGGB, []uint16{
		100, 200, 300, 210,
		220, 10, 230, 30,
	})
	require.NoError(t, err)

	st := Stats(m)
	require.Len(t, st, 3)
	assert.Equal(t, SiteStats{Channel: isp.Red, Count: 2, Min: 100, Max: 300, Mean: 200}, st[0])
	assert.Equal(t, SiteStats{Channel: isp.Green, Count: 4, Min: 200, Max: 230, Mean: 215}, st[1])
	assert.Equal(t, SiteStats{Channel: isp.Blue, Count: 2, Min: 10, Max: 30, Mean: 20}, st[2])

	one, err := isp.NewMosaicBuffer(1, 1, 12, isp.RGGB)
	require.NoError(t, err)
	st = Stats(one)
	assert.Equal(t, 0, st[2].Count)
	assert.Equal(t, uint16(0), st[2].Min)
}
