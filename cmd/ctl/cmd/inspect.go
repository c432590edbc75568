package cmd

import (
	"context"
	"fmt"

	"github.com/jpfielding/isp.go/pkg/rawio"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect cobra command
func NewInspectCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a raw frame",
		Long:  "Loads a raw frame with the given geometry and prints per-site sample statistics.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			if filePath == "" && len(args) > 0 {
				filePath = args[0]
			}
			if filePath == "" {
				return fmt.Errorf("file path is required. Use --file flag or provide as argument")
			}
			rc, err := rawConfig(cmd)
			if err != nil {
				return err
			}
			return runInspect(filePath, rc)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("file", "f", "", "Raw frame path to inspect")
	addRawFlags(pf)

	return cmd
}

func runInspect(filePath string, rc rawio.RawConfig) error {
	m, err := rawio.LoadRaw(filePath, rc)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	fmt.Println("=== Geometry ===")
	fmt.Printf("Width: %d\n", m.Width)
	fmt.Printf("Height: %d\n", m.Height)
	fmt.Printf("BitDepth: %d (max %d)\n", m.BitDepth, m.MaxValue())
	fmt.Printf("Pattern: %s\n", m.Pattern)
	fmt.Printf("FrameSize: %d bytes\n", rc.FrameSize())
	fmt.Printf("Compressed: %v\n", rawio.IsCompressed(filePath))

	fmt.Println()
	fmt.Println("=== Sites ===")
	for _, s := range rawio.Stats(m) {
		fmt.Printf("%-5s count=%d min=%d max=%d mean=%.2f\n", s.Channel, s.Count, s.Min, s.Max, s.Mean)
	}
	return nil
}
