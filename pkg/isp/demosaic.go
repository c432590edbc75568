package isp

import "fmt"

// Demosaic interpolates a full RGB buffer from an RGGB mosaic using bilinear
// averages of the nearest same-color sites. Borders use clamp-to-edge
// addressing and every average truncates.
//
// RGGB layout (row-major, 0-indexed):
//
//	(even row, even col) = R
//	(even row, odd  col) = G  (Gr)
//	(odd  row, even col) = G  (Gb)
//	(odd  row, odd  col) = B
func Demosaic(raw *MosaicBuffer) (*RgbBuffer, error) {
	return demosaic(raw, 0)
}

func demosaic(raw *MosaicBuffer, workers int) (*RgbBuffer, error) {
	if raw.Pattern != RGGB {
		return nil, fmt.Errorf("%w: %s (only RGGB is supported)", ErrUnsupportedPattern, raw.Pattern)
	}
	rgb, err := NewRgbBuffer(raw.Width, raw.Height, raw.BitDepth)
	if err != nil {
		return nil, err
	}

	w := raw.Width
	px := raw.clampAt
	parallelRows(workers, raw.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			evenRow := y%2 == 0
			row := rgb.Pixels[y*w : (y+1)*w]
			for x := 0; x < w; x++ {
				evenCol := x%2 == 0
				var r, g, b uint32

				switch {
				case evenRow && evenCol:
					// Red site
					r = px(x, y)
					g = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
					b = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4

				case evenRow && !evenCol:
					// Green on red row
					r = (px(x-1, y) + px(x+1, y)) / 2
					g = px(x, y)
					b = (px(x, y-1) + px(x, y+1)) / 2

				case !evenRow && evenCol:
					// Green on blue row
					r = (px(x, y-1) + px(x, y+1)) / 2
					g = px(x, y)
					b = (px(x-1, y) + px(x+1, y)) / 2

				default:
					// Blue site
					r = (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
					g = (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
					b = px(x, y)
				}

				row[x] = Pixel{R: uint16(r), G: uint16(g), B: uint16(b)}
			}
		}
	})
	return rgb, nil
}
