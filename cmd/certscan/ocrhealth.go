package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/certscan/internal/core/pipeline"
)

var ocrhealthCmd = &cobra.Command{
	Use:   "ocrhealth",
	Short: "Run the configured OCR engine over a generated test card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		scanner, err := pipeline.NewScannerFromConfig(cfg, logger)
		if err != nil {
			return err
		}
		start := time.Now()
		if err := scanner.HealthCheck(cmd.Context()); err != nil {
			return fmt.Errorf("OCR health (%s): FAIL after %s (%w)", cfg.OCR.Engine, time.Since(start).Round(time.Millisecond), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OCR health (%s): OK in %s\n", cfg.OCR.Engine, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ocrhealthCmd)
}
