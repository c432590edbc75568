package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/jpfielding/isp.go/pkg/rawio"
	"github.com/jpfielding/isp.go/pkg/testpattern"
	"github.com/spf13/cobra"
)

// NewGenerateCmd writes a synthetic RGGB frame
func NewGenerateCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic RGGB raw frame",
		Long:  "Writes a constant-color RGGB mosaic for exercising the pipeline. A .zst suffix compresses the output.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			r, _ := cmd.Flags().GetUint16("red")
			g, _ := cmd.Flags().GetUint16("green")
			b, _ := cmd.Flags().GetUint16("blue")

			rc, err := rawConfig(cmd)
			if err != nil {
				return err
			}
			if rc.Pattern != isp.RGGB {
				return fmt.Errorf("%w: %s", isp.ErrUnsupportedPattern, rc.Pattern)
			}
			m, err := testpattern.RGGB(rc.Width, rc.Height, rc.BitDepth, r, g, b)
			if err != nil {
				return err
			}
			if err := rawio.SaveRaw(out, m, rc.LittleEndian); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Generated test pattern",
				slog.String("path", out),
				slog.Int("width", rc.Width),
				slog.Int("height", rc.Height),
				slog.Int("bytes", rc.FrameSize()))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "test_pattern.raw", "Output raw path")
	pf.Uint16("red", testpattern.DefaultRed, "Value at red sites")
	pf.Uint16("green", testpattern.DefaultGreen, "Value at green sites")
	pf.Uint16("blue", testpattern.DefaultBlue, "Value at blue sites")
	addRawFlags(pf)

	return cmd
}
