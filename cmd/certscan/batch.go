package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/certscan/internal/core"
	"github.com/joseph-ayodele/certscan/internal/core/compare"
	"github.com/joseph-ayodele/certscan/internal/core/pipeline"
	"github.com/joseph-ayodele/certscan/internal/fraud"
	"github.com/joseph-ayodele/certscan/internal/ingest"
	repo "github.com/joseph-ayodele/certscan/internal/repository"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Scan every image under a directory and store the results",
	Long: `Walk a directory, run each image through the pipeline one at a time
and persist a scan job per image. Failed images are reported and skipped.`,
	Example: `  certscan batch ./inbox --skip-hidden`,
	Args:    cobra.ExactArgs(1),
	RunE:    runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Bool("skip-hidden", true, "Skip dot files and directories")
}

func runBatch(cmd *cobra.Command, args []string) error {
	skipHidden, _ := cmd.Flags().GetBool("skip-hidden")
	ctx := cmd.Context()

	db, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	scanner, err := pipeline.NewScannerFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	var assessor core.FraudAssessor
	if cfg.Fraud.URL != "" {
		assessor = fraud.NewClient(cfg.Fraud.URL, cfg.Fraud.Timeout, logger)
	}
	proc := core.NewProcessor(logger, scanner, repo.NewScanJobRepository(db, logger), assessor,
		compare.New(cfg.Review.MatchThreshold), cfg.OCR.MinConfidence)

	w := cmd.OutOrStdout()
	results, stats, err := ingest.ScanDirectory(ctx, args[0], skipHidden, func(ctx context.Context, path string) error {
		out, err := proc.ProcessFile(ctx, path)
		if err != nil {
			return err
		}
		flag := ""
		if out.NeedsReview {
			flag = " [review]"
		}
		fmt.Fprintf(w, "%s  %s  fields=%d%s\n", out.JobID, path, out.Result.Fields.Present(), flag)
		return nil
	})
	for _, r := range results {
		if r.Err != "" {
			fmt.Fprintf(w, "FAILED  %s: %s\n", r.Path, r.Err)
		}
	}
	fmt.Fprintf(w, "matched=%d succeeded=%d failed=%d\n", stats.Matched, stats.Succeeded, stats.Failed)
	return err
}
