package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/jpfielding/isp.go/pkg/rawio"
	"github.com/jpfielding/isp.go/pkg/receiver"
	"github.com/spf13/cobra"
)

// NewReceiveCmd processes frames streamed over TCP
func NewReceiveCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Receive and process raw frames over TCP",
		Long:  "Connects to a frame source, reads fixed-size raw frames until the source closes or the process is interrupted, and writes one image per frame.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := receiver.DefaultConfig()
			cfg.Addr, _ = cmd.Flags().GetString("addr")
			cfg.OutDir, _ = cmd.Flags().GetString("out-dir")
			cfg.KeepRaw, _ = cmd.Flags().GetBool("keep-raw")
			cfg.CompressRaw, _ = cmd.Flags().GetBool("compress-raw")
			cfg.DialTimeout, _ = cmd.Flags().GetDuration("dial-timeout")
			format, _ := cmd.Flags().GetString("format")

			f, err := rawio.FormatFromPath("output." + format)
			if err != nil {
				return err
			}
			cfg.Format = f
			if cfg.Raw, err = rawConfig(cmd); err != nil {
				return err
			}
			pc, err := pipelineConfig(cmd)
			if err != nil {
				return err
			}

			p := isp.New(pc)
			slog.InfoContext(ctx, "Receiving frames",
				slog.String("addr", cfg.Addr),
				slog.Int("frameSize", cfg.Raw.FrameSize()),
				slog.String("config", pc.Fingerprint()))
			st, err := receiver.New(cfg, p).Receive(ctx)
			slog.InfoContext(ctx, "Session finished",
				slog.Int("frames", st.Frames),
				slog.Int("failed", st.Failed),
				slog.Int64("bytes", st.Bytes))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("receive error: %w", err)
			}
			return nil
		},
	}

	def := receiver.DefaultConfig()
	pf := cmd.PersistentFlags()
	pf.String("addr", def.Addr, "Frame source host:port")
	pf.String("out-dir", def.OutDir, "Directory for archived frames and images")
	pf.Bool("keep-raw", def.KeepRaw, "Archive each received frame")
	pf.Bool("compress-raw", def.CompressRaw, "Compress archived frames with zstd")
	pf.String("format", string(def.Format), "Image format (ppm, png, tiff)")
	pf.Duration("dial-timeout", def.DialTimeout, "Connection timeout")
	addRawFlags(pf)
	addPipelineFlags(pf)

	return cmd
}
