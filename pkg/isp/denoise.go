package isp

import "math"

const (
	DefaultSigmaSpatial = 2.0
	DefaultSigmaRange   = 30.0
)

// ApplyDenoise runs an edge-preserving bilateral filter over a snapshot of
// the buffer. Each neighbor within radius ceil(2*sigmaSpatial) is weighted by
//
//	exp(-(dx²+dy²) / 2σs²) · exp(-‖neighbor-center‖² / 2σr²)
//
// where the color distance is summed over r, g and b. Neighbors outside the
// frame are clamped to the edge. Non-positive sigmas leave the buffer as is.
func ApplyDenoise(img *RgbBuffer, sigmaSpatial, sigmaRange float64) {
	applyDenoise(img, sigmaSpatial, sigmaRange, 0)
}

func applyDenoise(img *RgbBuffer, sigmaSpatial, sigmaRange float64, workers int) {
	if len(img.Pixels) == 0 || !(sigmaSpatial > 0) || !(sigmaRange > 0) {
		return
	}

	radius := int(math.Ceil(2 * sigmaSpatial))
	spatialCoeff := -0.5 / (sigmaSpatial * sigmaSpatial)
	rangeCoeff := -0.5 / (sigmaRange * sigmaRange)

	// spatial weights only depend on the offset
	side := 2*radius + 1
	spatial := make([]float64, side*side)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			spatial[(dy+radius)*side+dx+radius] = math.Exp(float64(dx*dx+dy*dy) * spatialCoeff)
		}
	}

	src := snapshot{w: img.Width, h: img.Height, px: img.Clone().Pixels}
	max := float64(img.MaxValue())
	out := func(sum, norm float64) uint16 {
		return uint16(math.Min(math.Max(math.Round(sum/norm), 0), max))
	}

	w := img.Width
	parallelRows(workers, img.Height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				center := src.at(x, y)
				cr, cg, cb := float64(center.R), float64(center.G), float64(center.B)

				var sumR, sumG, sumB, sumW float64
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						n := src.at(x+dx, y+dy)
						nr, ng, nb := float64(n.R), float64(n.G), float64(n.B)
						dr, dg, db := nr-cr, ng-cg, nb-cb

						weight := spatial[(dy+radius)*side+dx+radius] *
							math.Exp((dr*dr+dg*dg+db*db)*rangeCoeff)

						sumR += weight * nr
						sumG += weight * ng
						sumB += weight * nb
						sumW += weight
					}
				}

				img.Pixels[y*w+x] = Pixel{
					R: out(sumR, sumW),
					G: out(sumG, sumW),
					B: out(sumB, sumW),
				}
			}
		}
	})
}
