package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/jpfielding/isp.go/pkg/rawio"
	"github.com/spf13/cobra"
)

// NewProcessCmd runs one raw frame through the pipeline
func NewProcessCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a raw frame into an image",
		Long:  "Loads a raw Bayer frame (optionally .zst compressed) or mosaics a PNG/PPM, runs the ISP pipeline and writes PPM, PNG or TIFF by output extension.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			fromImage, _ := cmd.Flags().GetString("from-image")
			out, _ := cmd.Flags().GetString("out")
			dump, _ := cmd.Flags().GetString("dump-mosaic")

			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" && fromImage == "" {
				return fmt.Errorf("input is required. Use --in, --from-image or provide as argument")
			}
			if _, err := rawio.FormatFromPath(out); err != nil {
				return err
			}

			rc, err := rawConfig(cmd)
			if err != nil {
				return err
			}
			pc, err := pipelineConfig(cmd)
			if err != nil {
				return err
			}

			var raw *isp.MosaicBuffer
			if fromImage != "" {
				raw, err = rawio.LoadImageAsRaw(fromImage, rc.Pattern)
			} else {
				raw, err = rawio.LoadRaw(in, rc)
			}
			if err != nil {
				return fmt.Errorf("load error: %w", err)
			}

			// the pipeline corrects black level in place, dump first
			if dump != "" {
				if err := dumpMosaic(dump, raw); err != nil {
					return err
				}
				slog.InfoContext(ctx, "Dumped mosaic", slog.String("path", dump))
			}

			start := time.Now()
			rgb, err := isp.New(pc).Run(ctx, raw)
			if err != nil {
				return err
			}
			if err := rawio.SaveImage(out, rgb); err != nil {
				return err
			}
			slog.InfoContext(ctx, "Wrote image",
				slog.String("path", out),
				slog.Int("width", rgb.Width),
				slog.Int("height", rgb.Height),
				slog.Duration("elapsed", time.Since(start)))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "Raw frame path (.raw or .raw.zst)")
	pf.String("from-image", "", "PNG or PPM to mosaic instead of a raw frame")
	pf.StringP("out", "o", "output.ppm", "Output image path (.ppm, .png, .tif)")
	pf.String("dump-mosaic", "", "Also write the input mosaic as PGM")
	addRawFlags(pf)
	addPipelineFlags(pf)

	return cmd
}

func dumpMosaic(path string, m *isp.MosaicBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := rawio.EncodePGM(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
