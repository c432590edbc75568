package isp

import (
	"fmt"
	"strings"
)

// BayerPattern is the 2x2 color filter layout of a mosaic, named from the
// top-left sample reading row-major.
type BayerPattern int

const (
	RGGB BayerPattern = iota
	BGGR
	GRBG
	GBRG
)

func (p BayerPattern) String() string {
	switch p {
	case RGGB:
		return "RGGB"
	case BGGR:
		return "BGGR"
	case GRBG:
		return "GRBG"
	case GBRG:
		return "GBRG"
	default:
		return fmt.Sprintf("BayerPattern(%d)", int(p))
	}
}

// ParseBayerPattern accepts a pattern name in any case.
func ParseBayerPattern(s string) (BayerPattern, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RGGB":
		return RGGB, nil
	case "BGGR":
		return BGGR, nil
	case "GRBG":
		return GRBG, nil
	case "GBRG":
		return GBRG, nil
	}
	return RGGB, fmt.Errorf("unknown bayer pattern %q", s)
}

// Channel identifies which color a mosaic site samples.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	}
	return "?"
}

// SiteChannel returns the color sampled at (x, y) for the pattern.
func (p BayerPattern) SiteChannel(x, y int) Channel {
	odd := (y&1)<<1 | x&1
	var layout [4]Channel
	switch p {
	case BGGR:
		layout = [4]Channel{Blue, Green, Green, Red}
	case GRBG:
		layout = [4]Channel{Green, Red, Blue, Green}
	case GBRG:
		layout = [4]Channel{Green, Blue, Red, Green}
	default:
		layout = [4]Channel{Red, Green, Green, Blue}
	}
	return layout[odd]
}
