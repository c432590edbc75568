// Package receiver pulls fixed-size raw frames off a TCP stream and runs each
// one through an ISP pipeline as it arrives.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/jpfielding/isp.go/pkg/isp"
	"github.com/jpfielding/isp.go/pkg/logging"
	"github.com/jpfielding/isp.go/pkg/rawio"
	"github.com/jpfielding/isp.go/pkg/util"
)

// Runner turns a raw frame into a finished image. *isp.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, raw *isp.MosaicBuffer) (*isp.RgbBuffer, error)
}

// Config controls where frames come from and what is written per frame.
type Config struct {
	Addr        string
	Raw         rawio.RawConfig
	OutDir      string
	KeepRaw     bool
	CompressRaw bool
	Format      rawio.Format
	DialTimeout time.Duration
}

// DefaultConfig matches the reference capture host and stream geometry.
func DefaultConfig() Config {
	return Config{
		Addr:        "192.168.64.2:8080",
		Raw:         rawio.DefaultRawConfig(),
		OutDir:      ".",
		KeepRaw:     true,
		Format:      rawio.FormatPNG,
		DialTimeout: 10 * time.Second,
	}
}

// Stats counts what a session handled.
type Stats struct {
	Frames int   // complete frames received
	Failed int   // frames that could not be processed
	Bytes  int64 // payload bytes received
}

type Receiver struct {
	cfg    Config
	runner Runner
}

func New(cfg Config, runner Runner) *Receiver {
	return &Receiver{cfg: cfg, runner: runner}
}

// Dial connects to the frame source.
func Dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return conn, nil
}

// Receive dials cfg.Addr and serves frames until the peer closes the
// connection or ctx is cancelled.
func (r *Receiver) Receive(ctx context.Context) (Stats, error) {
	conn, err := Dial(ctx, r.cfg.Addr, r.cfg.DialTimeout)
	if err != nil {
		return Stats{}, err
	}
	defer conn.Close()
	slog.InfoContext(ctx, "Connected", slog.String("addr", r.cfg.Addr))

	// unblock a pending read on cancellation
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	return r.Serve(ctx, conn)
}

// Serve reads frames of cfg.Raw.FrameSize() bytes from in. A clean EOF on a
// frame boundary ends the session without error; EOF inside a frame does not.
// Frames that fail to decode or process are logged and skipped.
func (r *Receiver) Serve(ctx context.Context, in io.Reader) (Stats, error) {
	var st Stats
	if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
		return st, fmt.Errorf("failed to create output dir: %w", err)
	}
	frameSize := r.cfg.Raw.FrameSize()
	if frameSize <= 0 {
		return st, fmt.Errorf("%w: frame size %d", isp.ErrInvalidBuffer, frameSize)
	}
	buf := make([]byte, frameSize)

	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		n, err := io.ReadFull(in, buf)
		st.Bytes += int64(n)
		switch {
		case errors.Is(err, io.EOF):
			slog.InfoContext(ctx, "Source closed connection",
				slog.Int("frames", st.Frames),
				slog.Int("failed", st.Failed))
			return st, nil
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return st, ctxErr
			}
			return st, fmt.Errorf("frame %d: received %d of %d bytes: %w", st.Frames+1, n, frameSize, err)
		}

		st.Frames++
		if err := r.handle(ctx, st.Frames, buf); err != nil {
			st.Failed++
			slog.WarnContext(ctx, "Frame processing failed",
				slog.Int("frame", st.Frames),
				slog.Any("error", err))
		}
	}
}

func (r *Receiver) handle(ctx context.Context, seq int, frame []byte) error {
	ctx = logging.AppendCtx(ctx,
		slog.Int("seq", seq),
		slog.String("frameID", util.NewID()))

	raw, err := rawio.DecodeRaw(frame, r.cfg.Raw)
	if err != nil {
		return err
	}

	if r.cfg.KeepRaw {
		name := fmt.Sprintf("frame_%03d.raw", seq)
		if r.cfg.CompressRaw {
			name += ".zst"
		}
		path := filepath.Join(r.cfg.OutDir, name)
		if err := rawio.SaveRaw(path, raw, r.cfg.Raw.LittleEndian); err != nil {
			return err
		}
		slog.DebugContext(ctx, "Saved raw", slog.String("path", path))
	}

	start := time.Now()
	rgb, err := r.runner.Run(ctx, raw)
	if err != nil {
		return err
	}

	path := filepath.Join(r.cfg.OutDir, fmt.Sprintf("output_%03d%s", seq, r.cfg.Format.Extension()))
	if err := rawio.SaveImage(path, rgb); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Frame processed",
		slog.String("path", path),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}
