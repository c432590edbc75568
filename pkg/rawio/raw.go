// Package rawio loads headerless sensor dumps into mosaic buffers and encodes
// finished RGB buffers as PPM, PNG or TIFF.
package rawio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/klauspost/compress/zstd"
)

// RawConfig describes the layout of a headerless raw frame.
type RawConfig struct {
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	BitDepth     int              `json:"bit_depth"`
	Pattern      isp.BayerPattern `json:"pattern"`
	LittleEndian bool             `json:"little_endian"`
}

// DefaultRawConfig is the reference sensor stream: 640x480, 12-bit RGGB,
// little-endian.
func DefaultRawConfig() RawConfig {
	return RawConfig{
		Width:        640,
		Height:       480,
		BitDepth:     12,
		Pattern:      isp.RGGB,
		LittleEndian: true,
	}
}

// BytesPerSample is 1 for 8-bit data and 2 otherwise.
func (c RawConfig) BytesPerSample() int {
	if c.BitDepth > 8 {
		return 2
	}
	return 1
}

// FrameSize is the byte length of one frame.
func (c RawConfig) FrameSize() int {
	return c.Width * c.Height * c.BytesPerSample()
}

func (c RawConfig) byteOrder() binary.ByteOrder {
	if c.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// DecodeRaw unpacks one frame from b, which must hold exactly FrameSize bytes.
// Samples above the bit depth's maximum are rejected.
func DecodeRaw(b []byte, cfg RawConfig) (*isp.MosaicBuffer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", isp.ErrInvalidBuffer, cfg.Width, cfg.Height)
	}
	if len(b) != cfg.FrameSize() {
		return nil, fmt.Errorf("raw frame size mismatch: need %d bytes, got %d", cfg.FrameSize(), len(b))
	}
	samples := make([]uint16, cfg.Width*cfg.Height)
	if cfg.BytesPerSample() == 1 {
		for i := range samples {
			samples[i] = uint16(b[i])
		}
	} else {
		order := cfg.byteOrder()
		for i := range samples {
			samples[i] = order.Uint16(b[i*2:])
		}
	}
	return isp.NewMosaicBufferFrom(cfg.Width, cfg.Height, cfg.BitDepth, cfg.Pattern, samples)
}

// ReadRaw reads exactly one frame from r.
func ReadRaw(r io.Reader, cfg RawConfig) (*isp.MosaicBuffer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", isp.ErrInvalidBuffer, cfg.Width, cfg.Height)
	}
	buf := make([]byte, cfg.FrameSize())
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read %d byte frame: %w", len(buf), err)
	}
	return DecodeRaw(buf, cfg)
}

// EncodeRaw packs the samples of m the way ReadRaw expects them.
func EncodeRaw(m *isp.MosaicBuffer, littleEndian bool) []byte {
	cfg := RawConfig{Width: m.Width, Height: m.Height, BitDepth: m.BitDepth, LittleEndian: littleEndian}
	out := make([]byte, cfg.FrameSize())
	if cfg.BytesPerSample() == 1 {
		for i, s := range m.Samples {
			out[i] = byte(s)
		}
		return out
	}
	order := cfg.byteOrder()
	for i, s := range m.Samples {
		order.PutUint16(out[i*2:], s)
	}
	return out
}

// WriteRaw writes m as a headerless frame.
func WriteRaw(w io.Writer, m *isp.MosaicBuffer, littleEndian bool) error {
	_, err := w.Write(EncodeRaw(m, littleEndian))
	return err
}

// IsCompressed reports whether path names a zstd-framed raw file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".zst")
}

// LoadRaw reads a raw file; a .zst suffix is decompressed on the fly.
func LoadRaw(path string, cfg RawConfig) (*isp.MosaicBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if IsCompressed(path) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	m, err := ReadRaw(r, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("Loaded raw",
		slog.String("path", path),
		slog.Int("width", m.Width),
		slog.Int("height", m.Height),
		slog.Int("bitDepth", m.BitDepth),
		slog.Bool("compressed", IsCompressed(path)))
	return m, nil
}

// SaveRaw writes m to path, zstd-compressing when the suffix is .zst.
func SaveRaw(path string, m *isp.MosaicBuffer, littleEndian bool) error {
	return saveFile(path, func(w io.Writer) error {
		if !IsCompressed(path) {
			return WriteRaw(w, m, littleEndian)
		}
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		if err := WriteRaw(enc, m, littleEndian); err != nil {
			enc.Close()
			return err
		}
		return enc.Close()
	})
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
