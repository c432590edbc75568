package rawio

import (
	"fmt"
	"image"
	"os"

	_ "image/png" // ppm registers itself from encode.go

	"github.com/jpfielding/isp.go/pkg/isp"
)

// ImageBitDepth is the depth of mosaics built from 8-bit images.
const ImageBitDepth = 12

// MosaicFromImage simulates a sensor readout from an ordinary 8-bit image:
// each photosite keeps only the channel its filter passes, shifted up to
// 12 bits. Only RGGB is supported; other patterns fail rather than guess.
func MosaicFromImage(img image.Image, pattern isp.BayerPattern) (*isp.MosaicBuffer, error) {
	if pattern != isp.RGGB {
		return nil, fmt.Errorf("%w: %s (only RGGB is supported)", isp.ErrUnsupportedPattern, pattern)
	}
	b := img.Bounds()
	m, err := isp.NewMosaicBuffer(b.Dx(), b.Dy(), ImageBitDepth, pattern)
	if err != nil {
		return nil, err
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			var v uint32
			switch pattern.SiteChannel(x, y) {
			case isp.Red:
				v = r
			case isp.Green:
				v = g
			default:
				v = bl
			}
			m.Samples[y*m.Width+x] = uint16(v>>8) << 4
		}
	}
	return m, nil
}

// LoadImageAsRaw decodes a PNG or 8-bit PPM and mosaics it.
func LoadImageAsRaw(path string, pattern isp.BayerPattern) (*isp.MosaicBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	m, err := MosaicFromImage(img, pattern)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, format, err)
	}
	return m, nil
}
