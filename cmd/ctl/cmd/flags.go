package cmd

import (
	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/jpfielding/isp.go/pkg/rawio"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func addRawFlags(pf *pflag.FlagSet) {
	def := rawio.DefaultRawConfig()
	pf.Int("width", def.Width, "Frame width in pixels")
	pf.Int("height", def.Height, "Frame height in pixels")
	pf.Int("bit-depth", def.BitDepth, "Significant bits per sample (8-16)")
	pf.String("pattern", def.Pattern.String(), "Bayer pattern (RGGB, BGGR, GRBG, GBRG)")
	pf.Bool("little-endian", def.LittleEndian, "Samples above 8 bits are little-endian")
}

func rawConfig(cmd *cobra.Command) (rawio.RawConfig, error) {
	flags := cmd.Flags()
	var cfg rawio.RawConfig
	cfg.Width, _ = flags.GetInt("width")
	cfg.Height, _ = flags.GetInt("height")
	cfg.BitDepth, _ = flags.GetInt("bit-depth")
	cfg.LittleEndian, _ = flags.GetBool("little-endian")
	name, _ := flags.GetString("pattern")
	p, err := isp.ParseBayerPattern(name)
	if err != nil {
		return cfg, err
	}
	cfg.Pattern = p
	return cfg, nil
}

func addPipelineFlags(pf *pflag.FlagSet) {
	def := isp.DefaultConfig()
	pf.Uint16("black-level", def.BlackLevel, "Sensor black level subtracted from every sample")
	pf.Float64("gamma", def.Gamma, "Display gamma")
	pf.Bool("denoise", def.Denoise, "Run the bilateral denoise stage")
	pf.Float64("sigma-spatial", def.SigmaSpatial, "Denoise spatial sigma in pixels")
	pf.Float64("sigma-range", def.SigmaRange, "Denoise range sigma in sample units")
	pf.Int("workers", def.Workers, "Row workers per stage, 0 uses GOMAXPROCS")
}

func pipelineConfig(cmd *cobra.Command) (isp.Config, error) {
	flags := cmd.Flags()
	var cfg isp.Config
	cfg.BlackLevel, _ = flags.GetUint16("black-level")
	cfg.Gamma, _ = flags.GetFloat64("gamma")
	cfg.Denoise, _ = flags.GetBool("denoise")
	cfg.SigmaSpatial, _ = flags.GetFloat64("sigma-spatial")
	cfg.SigmaRange, _ = flags.GetFloat64("sigma-range")
	cfg.Workers, _ = flags.GetInt("workers")
	return cfg, cfg.Validate()
}
