package isp

// ApplySharpen convolves the buffer with the 5-point Laplacian sharpening
// kernel
//
//	 0  -1   0
//	-1   5  -1
//	 0  -1   0
//
// against a snapshot taken before the pass. Buffers narrower or shorter than
// 3 pixels are left untouched.
func ApplySharpen(img *RgbBuffer) {
	applySharpen(img, 0)
}

func applySharpen(img *RgbBuffer, workers int) {
	if img.Width < 3 || img.Height < 3 {
		return
	}
	src := snapshot{w: img.Width, h: img.Height, px: img.Clone().Pixels}
	max := int32(img.MaxValue())
	clamp := func(v int32) uint16 {
		if v < 0 {
			return 0
		}
		if v > max {
			return uint16(max)
		}
		return uint16(v)
	}

	w := img.Width
	parallelRows(workers, img.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				c := src.at(x, y)
				t := src.at(x, y-1)
				b := src.at(x, y+1)
				l := src.at(x-1, y)
				r := src.at(x+1, y)

				img.Pixels[y*w+x] = Pixel{
					R: clamp(5*int32(c.R) - int32(t.R) - int32(b.R) - int32(l.R) - int32(r.R)),
					G: clamp(5*int32(c.G) - int32(t.G) - int32(b.G) - int32(l.G) - int32(r.G)),
					B: clamp(5*int32(c.B) - int32(t.B) - int32(b.B) - int32(l.B) - int32(r.B)),
				}
			}
		}
	})
}
