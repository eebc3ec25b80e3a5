package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/certscan/internal/common"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "certscan",
	Short: "Extract structured fields from scanned certificates and marksheets",
	Long: `certscan runs OCR over a certificate or marksheet image, extracts
student name, roll number, certificate number, institution, course, marks,
issue date and UIN, and validates the record.

Configuration is read from the environment (and .env when present).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()
		cfg = common.LoadConfig()
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return cfg.Validate()
	},
}

var (
	cfg    *common.Config
	logger *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
