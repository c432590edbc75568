package isp

import "fmt"

const (
	MinBitDepth = 8
	MaxBitDepth = 16
)

// MosaicBuffer holds a single-channel Bayer readout.
type MosaicBuffer struct {
	Width    int
	Height   int
	BitDepth int
	Pattern  BayerPattern

	// Samples in row-major order, one per photosite
	Samples []uint16
}

func validateGeometry(width, height, bitDepth int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidBuffer, width, height)
	}
	if bitDepth < MinBitDepth || bitDepth > MaxBitDepth {
		return fmt.Errorf("%w: bit depth must be between %d and %d, got %d", ErrInvalidBuffer, MinBitDepth, MaxBitDepth, bitDepth)
	}
	return nil
}

func maxValue(bitDepth int) uint16 {
	return uint16(uint32(1)<<uint(bitDepth) - 1)
}

// NewMosaicBuffer creates a zero-filled mosaic.
func NewMosaicBuffer(width, height, bitDepth int, pattern BayerPattern) (*MosaicBuffer, error) {
	if err := validateGeometry(width, height, bitDepth); err != nil {
		return nil, err
	}
	return &MosaicBuffer{
		Width:    width,
		Height:   height,
		BitDepth: bitDepth,
		Pattern:  pattern,
		Samples:  make([]uint16, width*height),
	}, nil
}

// NewMosaicBufferFrom adopts samples without copying. The slice must hold
// exactly width*height values, none above the bit depth's maximum.
func NewMosaicBufferFrom(width, height, bitDepth int, pattern BayerPattern, samples []uint16) (*MosaicBuffer, error) {
	if err := validateGeometry(width, height, bitDepth); err != nil {
		return nil, err
	}
	if len(samples) != width*height {
		return nil, fmt.Errorf("%w: need %d samples, got %d", ErrInvalidBuffer, width*height, len(samples))
	}
	max := maxValue(bitDepth)
	for i, s := range samples {
		if s > max {
			return nil, fmt.Errorf("%w: sample %d at (%d,%d) exceeds %d-bit maximum %d",
				ErrInvalidBuffer, s, i%width, i/width, bitDepth, max)
		}
	}
	return &MosaicBuffer{
		Width:    width,
		Height:   height,
		BitDepth: bitDepth,
		Pattern:  pattern,
		Samples:  samples,
	}, nil
}

// MaxValue is the largest sample the bit depth can represent (4095 for 12-bit).
func (m *MosaicBuffer) MaxValue() uint16 {
	return maxValue(m.BitDepth)
}

func (m *MosaicBuffer) Len() int {
	return len(m.Samples)
}

// At returns the sample at (x, y)
func (m *MosaicBuffer) At(x, y int) (uint16, error) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, m.Width, m.Height)
	}
	return m.Samples[y*m.Width+x], nil
}

// Set stores v at (x, y). Values above MaxValue are rejected.
func (m *MosaicBuffer) Set(x, y int, v uint16) error {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, m.Width, m.Height)
	}
	if v > m.MaxValue() {
		return fmt.Errorf("%w: sample %d exceeds maximum %d", ErrInvalidBuffer, v, m.MaxValue())
	}
	m.Samples[y*m.Width+x] = v
	return nil
}

// Fill sets every sample to v, clamped to MaxValue.
func (m *MosaicBuffer) Fill(v uint16) {
	if max := m.MaxValue(); v > max {
		v = max
	}
	for i := range m.Samples {
		m.Samples[i] = v
	}
}

// clampAt reads with clamp-to-edge addressing.
func (m *MosaicBuffer) clampAt(x, y int) uint32 {
	return uint32(m.Samples[clampIndex(y, m.Height)*m.Width+clampIndex(x, m.Width)])
}

func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
