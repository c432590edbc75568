package isp

import "math"

// DefaultGamma is the display gamma used by the reference driver.
const DefaultGamma = 2.2

// GammaLUT builds the tone curve lut[i] = floor((i/max)^(1/gamma) * max) for
// every representable input. lut[0] is 0 and lut[max] is max for any
// positive gamma. It returns nil for gamma <= 0 or max == 0.
func GammaLUT(gamma float64, max uint16) []uint16 {
	if gamma <= 0 || max == 0 {
		return nil
	}
	lut := make([]uint16, int(max)+1)
	fmax := float64(max)
	inv := 1.0 / gamma
	for i := range lut {
		v := math.Floor(math.Pow(float64(i)/fmax, inv) * fmax)
		lut[i] = uint16(math.Min(math.Max(v, 0), fmax))
	}
	return lut
}

// ApplyGamma maps every channel through a freshly built GammaLUT. It is a
// no-op for an empty buffer or gamma <= 0.
func ApplyGamma(img *RgbBuffer, gamma float64) {
	if len(img.Pixels) == 0 || gamma <= 0 {
		return
	}
	lut := GammaLUT(gamma, img.MaxValue())
	for i, p := range img.Pixels {
		img.Pixels[i] = Pixel{R: lut[p.R], G: lut[p.G], B: lut[p.B]}
	}
}
