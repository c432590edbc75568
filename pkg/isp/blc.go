package isp

// ApplyBlackLevel subtracts the sensor's black level from every sample,
// saturating at zero.
func ApplyBlackLevel(buf *MosaicBuffer, blackLevel uint16) {
	for i, s := range buf.Samples {
		if s > blackLevel {
			buf.Samples[i] = s - blackLevel
		} else {
			buf.Samples[i] = 0
		}
	}
}
