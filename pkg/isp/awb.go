package isp

import "math"

// Gains are the per-channel multipliers applied by white balance.
type Gains struct {
	R, G, B float64
}

// UnitGains leaves every channel unchanged.
var UnitGains = Gains{R: 1, G: 1, B: 1}

// ApplyAWB performs gray-world white balance in place. The channel with the
// largest mean is the reference and keeps a gain of exactly 1; the other two
// are scaled up to match it. Results truncate and clip at MaxValue.
func ApplyAWB(img *RgbBuffer) Gains {
	if len(img.Pixels) == 0 {
		return UnitGains
	}

	rAvg, gAvg, bAvg := img.ChannelMeans()
	// floor at 1 so an all-black channel cannot divide by zero
	rAvg = math.Max(rAvg, 1)
	gAvg = math.Max(gAvg, 1)
	bAvg = math.Max(bAvg, 1)

	ref := math.Max(rAvg, math.Max(gAvg, bAvg))
	gains := Gains{R: ref / rAvg, G: ref / gAvg, B: ref / bAvg}

	max := float64(img.MaxValue())
	scale := func(v uint16, gain float64) uint16 {
		return uint16(math.Min(float64(v)*gain, max))
	}
	for i, p := range img.Pixels {
		img.Pixels[i] = Pixel{
			R: scale(p.R, gains.R),
			G: scale(p.G, gains.G),
			B: scale(p.B, gains.B),
		}
	}
	return gains
}
