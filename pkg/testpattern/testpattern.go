// Package testpattern generates synthetic Bayer mosaics for exercising the
// pipeline without a sensor.
package testpattern

import (
	"fmt"

	"github.com/jpfielding/isp.go/pkg/isp"
)

// Site values of the reference test frame.
const (
	DefaultRed   uint16 = 3000
	DefaultGreen uint16 = 2000
	DefaultBlue  uint16 = 1000
)

// RGGB fills a mosaic with the repeating RGGB tile (r, g / g, b).
func RGGB(width, height, bitDepth int, r, g, b uint16) (*isp.MosaicBuffer, error) {
	m, err := isp.NewMosaicBuffer(width, height, bitDepth, isp.RGGB)
	if err != nil {
		return nil, err
	}
	if max := m.MaxValue(); r > max || g > max || b > max {
		return nil, fmt.Errorf("%w: tile (%d,%d,%d) exceeds %d-bit maximum %d",
			isp.ErrInvalidBuffer, r, g, b, bitDepth, max)
	}
	values := map[isp.Channel]uint16{isp.Red: r, isp.Green: g, isp.Blue: b}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Samples[y*width+x] = values[isp.RGGB.SiteChannel(x, y)]
		}
	}
	return m, nil
}
