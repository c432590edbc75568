package isp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatRGB(t *testing.T, w, h, bd int, p Pixel) *RgbBuffer {
	t.Helper()
	b, err := NewRgbBuffer(w, h, bd)
	require.NoError(t, err)
	b.Fill(p)
	return b
}

// gradientRGB fills a buffer with a deterministic non-trivial pattern.
func gradientRGB(t *testing.T, w, h, bd int) *RgbBuffer {
	t.Helper()
	b, err := NewRgbBuffer(w, h, bd)
	require.NoError(t, err)
	max := int(b.MaxValue())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Pixels[y*w+x] = Pixel{
				R: uint16((x * 97) % (max + 1)),
				G: uint16((y * 131) % (max + 1)),
				B: uint16(((x+y)*53 + (x*y)%17*200) % (max + 1)),
			}
		}
	}
	return b
}

func TestApplyBlackLevel(t *testing.T) {
	tests := []struct {
		sample, black, want uint16
	}{
		{64, 64, 0},
		{30, 64, 0},
		{5000, 64, 4936},
		{0, 0, 0},
		{4095, 0, 4095},
		{65, 64, 1},
	}

	m, err := NewMosaicBuffer(len(tests), 1, 16, RGGB)
	require.NoError(t, err)
	for _, tt := range tests {
		m.Fill(tt.sample)
		ApplyBlackLevel(m, tt.black)
		for _, s := range m.Samples {
			assert.Equal(t, tt.want, s, "sample=%d black=%d", tt.sample, tt.black)
		}
	}
}

func TestDemosaic_GeometryPreserved(t *testing.T) {
	for _, dims := range [][3]int{{1, 1, 8}, {2, 2, 12}, {5, 3, 10}, {64, 48, 16}} {
		m, err := NewMosaicBuffer(dims[0], dims[1], dims[2], RGGB)
		require.NoError(t, err)
		for i := range m.Samples {
			m.Samples[i] = uint16(i*37) & m.MaxValue()
		}
		rgb, err := Demosaic(m)
		require.NoError(t, err)
		assert.Equal(t, dims[0], rgb.Width)
		assert.Equal(t, dims[1], rgb.Height)
		assert.Equal(t, dims[2], rgb.BitDepth)
		assert.Equal(t, dims[0]*dims[1], rgb.Len())
	}
}

func TestDemosaic_FlatField(t *testing.T) {
	m, err := NewMosaicBuffer(9, 7, 12, RGGB)
	require.NoError(t, err)
	m.Fill(1234)

	rgb, err := Demosaic(m)
	require.NoError(t, err)
	for i, p := range rgb.Pixels {
		assert.Equal(t, Pixel{1234, 1234, 1234}, p, "pixel %d", i)
	}
}

func TestDemosaic_UnsupportedPattern(t *testing.T) {
	for _, p := range []BayerPattern{BGGR, GRBG, GBRG} {
		m, err := NewMosaicBuffer(4, 4, 12, p)
		require.NoError(t, err)
		rgb, err := Demosaic(m)
		assert.ErrorIs(t, err, ErrUnsupportedPattern)
		assert.Nil(t, rgb)
	}
}

func TestDemosaic_Interpolation(t *testing.T) {
	// 4x4 RGGB with distinct values per site
	m, err := NewMosaicBufferFrom(4, 4, 12, RGGB, []uint16{
		100, 200, 110, 210,
		300, 400, 310, 410,
		120, 220, 130, 230,
		320, 420, 330, 430,
	})
	require.NoError(t, err)
	rgb, err := Demosaic(m)
	require.NoError(t, err)

	at := func(x, y int) Pixel {
		p, err := rgb.At(x, y)
		require.NoError(t, err)
		return p
	}

	// R site at (2,2): g = (220+230+310+330)/4, b = (400+410+420+430)/4
	assert.Equal(t, Pixel{R: 130, G: 272, B: 415}, at(2, 2))
	// Gr at (1,2): r = (120+130)/2, b = (400+420)/2
	assert.Equal(t, Pixel{R: 125, G: 220, B: 410}, at(1, 2))
	// Gb at (2,1): r = (110+130)/2, b = (400+410)/2
	assert.Equal(t, Pixel{R: 120, G: 310, B: 405}, at(2, 1))
	// B at (1,1): r = (100+110+120+130)/4, g = (300+310+200+220)/4 truncated
	assert.Equal(t, Pixel{R: 115, G: 257, B: 400}, at(1, 1))
	// corner R with clamp-to-edge: left and up fold back onto the R site itself
	assert.Equal(t, Pixel{R: 100, G: (100 + 200 + 100 + 300) / 4, B: (100 + 200 + 300 + 400) / 4}, at(0, 0))
}

func TestDemosaic_WorkerCountInvariant(t *testing.T) {
	m, err := NewMosaicBuffer(37, 29, 12, RGGB)
	require.NoError(t, err)
	for i := range m.Samples {
		m.Samples[i] = uint16((i * 7919) % 4096)
	}
	one, err := demosaic(m, 1)
	require.NoError(t, err)
	many, err := demosaic(m, 8)
	require.NoError(t, err)
	assert.Equal(t, one.Pixels, many.Pixels)
}

func TestApplyAWB_BrightnessPreserving(t *testing.T) {
	b, err := NewRgbBuffer(4, 4, 12)
	require.NoError(t, err)
	for i := range b.Pixels {
		// R mean 2000, G mean 1000, B mean 500
		off := uint16(i%2) * 100
		b.Pixels[i] = Pixel{R: 1950 + off, G: 950 + off, B: 450 + off}
	}
	rBefore, _, _ := b.ChannelMeans()

	gains := ApplyAWB(b)
	assert.Equal(t, 1.0, gains.R)
	assert.InDelta(t, 2.0, gains.G, 1e-9)
	assert.InDelta(t, 4.0, gains.B, 1e-9)

	r, g, bl := b.ChannelMeans()
	assert.Equal(t, rBefore, r, "reference channel must be untouched")
	assert.InDelta(t, r, g, 1.0)
	assert.InDelta(t, r, bl, 1.0)
}

func TestApplyAWB_ClipsAtMax(t *testing.T) {
	b, err := NewRgbBuffer(2, 1, 8)
	require.NoError(t, err)
	b.Pixels[0] = Pixel{R: 200, G: 250, B: 10}
	b.Pixels[1] = Pixel{R: 200, G: 250, B: 250}
	ApplyAWB(b)
	for _, p := range b.Pixels {
		assert.LessOrEqual(t, p.R, uint16(255))
		assert.LessOrEqual(t, p.G, uint16(255))
		assert.LessOrEqual(t, p.B, uint16(255))
	}
	assert.Equal(t, uint16(250), b.Pixels[0].G)
	assert.Equal(t, uint16(255), b.Pixels[1].B)
}

func TestApplyAWB_BlackAndEmpty(t *testing.T) {
	b := flatRGB(t, 3, 3, 12, Pixel{})
	gains := ApplyAWB(b)
	assert.Equal(t, UnitGains, gains)
	for _, p := range b.Pixels {
		assert.Equal(t, Pixel{}, p)
	}

	empty := &RgbBuffer{Width: 0, Height: 0, BitDepth: 12}
	assert.Equal(t, UnitGains, ApplyAWB(empty))
}

func TestGammaLUT_FixedPointsAndMonotonic(t *testing.T) {
	for _, max := range []uint16{255, 1023, 4095, 65535} {
		for _, gamma := range []float64{0.3, 1.0, 2.2, 5.0} {
			lut := GammaLUT(gamma, max)
			require.Len(t, lut, int(max)+1)
			assert.Equal(t, uint16(0), lut[0], "gamma=%v max=%d", gamma, max)
			assert.Equal(t, max, lut[max], "gamma=%v max=%d", gamma, max)
			for i := 1; i < len(lut); i++ {
				if lut[i] < lut[i-1] {
					t.Fatalf("lut not monotonic at %d for gamma=%v max=%d", i, gamma, max)
				}
			}
		}
	}
	assert.Nil(t, GammaLUT(0, 4095))
	assert.Nil(t, GammaLUT(-1, 4095))
}

func TestGammaLUT_Values(t *testing.T) {
	lut := GammaLUT(1.0, 255)
	for i, v := range lut {
		assert.Equal(t, uint16(i), v)
	}
	lut = GammaLUT(2.0, 255)
	// floor(sqrt(64/255)*255) = floor(127.75)
	assert.Equal(t, uint16(127), lut[64])
}

func TestApplyGamma(t *testing.T) {
	zero := flatRGB(t, 3, 3, 12, Pixel{})
	ApplyGamma(zero, 2.2)
	assert.Equal(t, Pixel{}, zero.Pixels[4])

	full := flatRGB(t, 3, 3, 12, Pixel{4095, 4095, 4095})
	ApplyGamma(full, 2.2)
	assert.Equal(t, Pixel{4095, 4095, 4095}, full.Pixels[4])

	mid := flatRGB(t, 2, 2, 12, Pixel{1000, 2000, 3000})
	lut := GammaLUT(2.2, 4095)
	ApplyGamma(mid, 2.2)
	assert.Equal(t, Pixel{lut[1000], lut[2000], lut[3000]}, mid.Pixels[0])
	assert.Greater(t, mid.Pixels[0].R, uint16(1000), "gamma > 1 brightens mid-tones")

	untouched := flatRGB(t, 2, 2, 12, Pixel{1000, 2000, 3000})
	ApplyGamma(untouched, 0)
	ApplyGamma(untouched, -2)
	assert.Equal(t, Pixel{1000, 2000, 3000}, untouched.Pixels[0])
}

func TestApplySharpen_FlatField(t *testing.T) {
	b := flatRGB(t, 5, 4, 12, Pixel{700, 1500, 4095})
	ApplySharpen(b)
	for _, p := range b.Pixels {
		assert.Equal(t, Pixel{700, 1500, 4095}, p)
	}
}

func TestApplySharpen_SmallImageNoop(t *testing.T) {
	for _, dims := range [][2]int{{2, 5}, {5, 2}, {1, 1}, {2, 2}} {
		b := gradientRGB(t, dims[0], dims[1], 12)
		before := b.Clone()
		ApplySharpen(b)
		assert.Equal(t, before.Pixels, b.Pixels, "%dx%d", dims[0], dims[1])
	}
}

func TestApplySharpen_Kernel(t *testing.T) {
	b := flatRGB(t, 3, 3, 12, Pixel{100, 100, 100})
	b.Pixels[4] = Pixel{200, 100, 0}
	ApplySharpen(b)

	// center: 5*200 - 4*100, 5*0 - 4*100 clamps to 0
	assert.Equal(t, Pixel{600, 100, 0}, b.Pixels[4])
	// top-middle: neighbors top(clamped self)=100, bottom=center, left=100, right=100
	assert.Equal(t, Pixel{R: 500 - 100 - 200 - 100 - 100, G: 100, B: 500 - 100 - 0 - 100 - 100}, b.Pixels[1])
	// corners only see flat neighbors
	assert.Equal(t, Pixel{100, 100, 100}, b.Pixels[0])
}

func TestApplySharpen_WorkerCountInvariant(t *testing.T) {
	a := gradientRGB(t, 31, 17, 12)
	b := a.Clone()
	applySharpen(a, 1)
	applySharpen(b, 6)
	assert.Equal(t, a.Pixels, b.Pixels)
}

func TestApplyDenoise_FlatField(t *testing.T) {
	for _, sigmas := range [][2]float64{{2, 30}, {0.5, 1}, {1, 1000}, {3.3, 0.1}} {
		b := flatRGB(t, 6, 5, 12, Pixel{1000, 2000, 3000})
		ApplyDenoise(b, sigmas[0], sigmas[1])
		for _, p := range b.Pixels {
			assert.Equal(t, Pixel{1000, 2000, 3000}, p, "sigmas=%v", sigmas)
		}
	}
}

func TestApplyDenoise_SmoothsNoisePreservesEdge(t *testing.T) {
	w, h := 8, 8
	b, err := NewRgbBuffer(w, h, 12)
	require.NoError(t, err)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint16(500)
			if x >= w/2 {
				v = 3500
			}
			b.Pixels[y*w+x] = Pixel{v, v, v}
		}
	}
	// small speckle on the dark side
	b.Pixels[2*w+1] = Pixel{520, 520, 520}

	ApplyDenoise(b, DefaultSigmaSpatial, DefaultSigmaRange)

	speck := b.Pixels[2*w+1]
	assert.Less(t, speck.R, uint16(520))
	assert.GreaterOrEqual(t, speck.R, uint16(500))
	// the 3000-level step is far outside sigma_range so the edge survives
	assert.InDelta(t, 500, int(b.Pixels[4*w+w/2-1].R), 2)
	assert.InDelta(t, 3500, int(b.Pixels[4*w+w/2].R), 2)
}

func TestApplyDenoise_DegenerateSigmaNoop(t *testing.T) {
	b := gradientRGB(t, 5, 5, 12)
	before := b.Clone()
	ApplyDenoise(b, 0, 30)
	ApplyDenoise(b, 2, 0)
	ApplyDenoise(b, -1, -1)
	assert.Equal(t, before.Pixels, b.Pixels)
}

func TestApplyDenoise_WorkerCountInvariant(t *testing.T) {
	a := gradientRGB(t, 19, 13, 10)
	b := a.Clone()
	applyDenoise(a, 1.5, 40, 1)
	applyDenoise(b, 1.5, 40, 5)
	assert.Equal(t, a.Pixels, b.Pixels)
}
