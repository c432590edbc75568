package isp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpfielding/isp.go/pkg/util"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageBLC      Stage = "blc"
	StageDemosaic Stage = "demosaic"
	StageAWB      Stage = "awb"
	StageGamma    Stage = "gamma"
	StageSharpen  Stage = "sharpen"
	StageDenoise  Stage = "denoise"
)

// DefaultBlackLevel is the reference driver's sensor black level.
const DefaultBlackLevel = 64

// Config holds the stage parameters of a Pipeline.
type Config struct {
	BlackLevel   uint16  `json:"black_level"`
	Gamma        float64 `json:"gamma"`
	Denoise      bool    `json:"denoise"`
	SigmaSpatial float64 `json:"sigma_spatial"`
	SigmaRange   float64 `json:"sigma_range"`

	// Workers bounds the goroutines per stage; 0 means GOMAXPROCS.
	// It never changes the output.
	Workers int `json:"-"`
}

// DefaultConfig returns the parameters of the reference driver.
func DefaultConfig() Config {
	return Config{
		BlackLevel:   DefaultBlackLevel,
		Gamma:        DefaultGamma,
		Denoise:      false,
		SigmaSpatial: DefaultSigmaSpatial,
		SigmaRange:   DefaultSigmaRange,
	}
}

// Validate rejects parameters the stages would silently ignore.
func (c Config) Validate() error {
	if !(c.Gamma > 0) {
		return fmt.Errorf("%w: gamma must be positive, got %v", ErrInvalidConfig, c.Gamma)
	}
	if c.Denoise && (!(c.SigmaSpatial > 0) || !(c.SigmaRange > 0)) {
		return fmt.Errorf("%w: denoise sigmas must be positive, got spatial=%v range=%v",
			ErrInvalidConfig, c.SigmaSpatial, c.SigmaRange)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// Fingerprint is a stable identifier for the output-affecting parameters.
func (c Config) Fingerprint() string {
	return util.HashUUID(c)
}

// Pipeline runs the fixed stage sequence
// BLC -> Demosaic -> AWB -> Gamma -> Sharpen -> (Denoise).
type Pipeline struct {
	cfg Config
}

func New(cfg Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

func (p *Pipeline) Config() Config {
	return p.cfg
}

// Stages lists the stages Run executes, in order.
func (p *Pipeline) Stages() []Stage {
	stages := []Stage{StageBLC, StageDemosaic, StageAWB, StageGamma, StageSharpen}
	if p.cfg.Denoise {
		stages = append(stages, StageDenoise)
	}
	return stages
}

// Run takes ownership of raw, corrects it in place and returns the finished
// RGB buffer. ctx is checked between stages only; a stage that has started
// always completes so no buffer is left half written. On error the stage name
// is wrapped around the cause.
func (p *Pipeline) Run(ctx context.Context, raw *MosaicBuffer) (*RgbBuffer, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Running pipeline",
		slog.String("config", p.cfg.Fingerprint()),
		slog.Int("width", raw.Width),
		slog.Int("height", raw.Height),
		slog.Int("bitDepth", raw.BitDepth),
		slog.String("pattern", raw.Pattern.String()),
		slog.Bool("denoise", p.cfg.Denoise))

	var rgb *RgbBuffer
	for _, stage := range p.Stages() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", stage, err)
		}
		start := time.Now()
		attrs, err := p.runStage(stage, raw, &rgb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage, err)
		}
		slog.DebugContext(ctx, "Stage complete", append([]any{
			slog.String("stage", string(stage)),
			slog.Duration("elapsed", time.Since(start)),
		}, attrs...)...)
	}
	return rgb, nil
}

func (p *Pipeline) runStage(stage Stage, raw *MosaicBuffer, rgb **RgbBuffer) ([]any, error) {
	switch stage {
	case StageBLC:
		ApplyBlackLevel(raw, p.cfg.BlackLevel)
		return []any{slog.Int("blackLevel", int(p.cfg.BlackLevel))}, nil
	case StageDemosaic:
		out, err := demosaic(raw, p.cfg.Workers)
		if err != nil {
			return nil, err
		}
		*rgb = out
		return nil, nil
	case StageAWB:
		g := ApplyAWB(*rgb)
		return []any{slog.Group("gains",
			slog.Float64("r", g.R),
			slog.Float64("g", g.G),
			slog.Float64("b", g.B))}, nil
	case StageGamma:
		ApplyGamma(*rgb, p.cfg.Gamma)
		return []any{slog.Float64("gamma", p.cfg.Gamma), slog.Int("lutSize", int((*rgb).MaxValue())+1)}, nil
	case StageSharpen:
		applySharpen(*rgb, p.cfg.Workers)
		return nil, nil
	case StageDenoise:
		applyDenoise(*rgb, p.cfg.SigmaSpatial, p.cfg.SigmaRange, p.cfg.Workers)
		return []any{slog.Float64("sigmaSpatial", p.cfg.SigmaSpatial), slog.Float64("sigmaRange", p.cfg.SigmaRange)}, nil
	}
	return nil, fmt.Errorf("unknown stage %q", stage)
}
