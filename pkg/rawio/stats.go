package rawio

import (
	"math"

	"github.com/jpfielding/isp.go/pkg/isp"
)

// SiteStats summarizes the samples of one filter color.
type SiteStats struct {
	Channel isp.Channel
	Count   int
	Min     uint16
	Max     uint16
	Mean    float64
}

// Stats returns per-channel statistics of a mosaic, ordered R, G, B.
func Stats(m *isp.MosaicBuffer) []SiteStats {
	out := []SiteStats{
		{Channel: isp.Red, Min: math.MaxUint16},
		{Channel: isp.Green, Min: math.MaxUint16},
		{Channel: isp.Blue, Min: math.MaxUint16},
	}
	sums := make([]float64, len(out))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := m.Pattern.SiteChannel(x, y)
			s := m.Samples[y*m.Width+x]
			st := &out[c]
			st.Count++
			st.Min = min(st.Min, s)
			st.Max = max(st.Max, s)
			sums[c] += float64(s)
		}
	}
	for i := range out {
		if out[i].Count == 0 {
			out[i].Min = 0
			continue
		}
		out[i].Mean = sums[i] / float64(out[i].Count)
	}
	return out
}
