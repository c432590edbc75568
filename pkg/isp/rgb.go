package isp

import "fmt"

// Pixel is one demosaiced RGB sample.
type Pixel struct {
	R, G, B uint16
}

// RgbBuffer holds three-channel samples at the bit depth of the mosaic it
// was demosaiced from.
type RgbBuffer struct {
	Width    int
	Height   int
	BitDepth int

	// Pixels in row-major order
	Pixels []Pixel
}

// NewRgbBuffer creates a black RGB buffer.
func NewRgbBuffer(width, height, bitDepth int) (*RgbBuffer, error) {
	if err := validateGeometry(width, height, bitDepth); err != nil {
		return nil, err
	}
	return &RgbBuffer{
		Width:    width,
		Height:   height,
		BitDepth: bitDepth,
		Pixels:   make([]Pixel, width*height),
	}, nil
}

func (b *RgbBuffer) MaxValue() uint16 {
	return maxValue(b.BitDepth)
}

func (b *RgbBuffer) Len() int {
	return len(b.Pixels)
}

// At returns the pixel at (x, y)
func (b *RgbBuffer) At(x, y int) (Pixel, error) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Pixel{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	return b.Pixels[y*b.Width+x], nil
}

// Set stores p at (x, y). Channels above MaxValue are rejected.
func (b *RgbBuffer) Set(x, y int, p Pixel) error {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.Width, b.Height)
	}
	if max := b.MaxValue(); p.R > max || p.G > max || p.B > max {
		return fmt.Errorf("%w: pixel %v exceeds maximum %d", ErrInvalidBuffer, p, max)
	}
	b.Pixels[y*b.Width+x] = p
	return nil
}

// Fill sets every pixel to p.
func (b *RgbBuffer) Fill(p Pixel) {
	for i := range b.Pixels {
		b.Pixels[i] = p
	}
}

// Clone returns a deep copy. Sharpen and denoise read neighborhoods from a
// clone so results never depend on visit order.
func (b *RgbBuffer) Clone() *RgbBuffer {
	c := *b
	c.Pixels = make([]Pixel, len(b.Pixels))
	copy(c.Pixels, b.Pixels)
	return &c
}

// ChannelMeans returns the arithmetic mean of each channel.
func (b *RgbBuffer) ChannelMeans() (r, g, bl float64) {
	if len(b.Pixels) == 0 {
		return 0, 0, 0
	}
	var rs, gs, bs float64
	for _, p := range b.Pixels {
		rs += float64(p.R)
		gs += float64(p.G)
		bs += float64(p.B)
	}
	n := float64(len(b.Pixels))
	return rs / n, gs / n, bs / n
}

// snapshot is a read-only view used by the neighborhood filters.
type snapshot struct {
	w, h int
	px   []Pixel
}

func (s snapshot) at(x, y int) Pixel {
	return s.px[clampIndex(y, s.h)*s.w+clampIndex(x, s.w)]
}
