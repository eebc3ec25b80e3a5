package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/certscan/internal/export"
	repo "github.com/joseph-ayodele/certscan/internal/repository"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write stored scans to an XLSX workbook for manual review",
	Example: `  certscan export --out scans.xlsx --from 2025-06-01 --to 2025-06-30`,
	Args:    cobra.NoArgs,
	RunE:    runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("out", "o", "scans.xlsx", "Output workbook path")
	exportCmd.Flags().String("from", "", "First scan day (YYYY-MM-DD)")
	exportCmd.Flags().String("to", "", "Last scan day (YYYY-MM-DD)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	fromRaw, _ := cmd.Flags().GetString("from")
	toRaw, _ := cmd.Flags().GetString("to")

	from, err := parseDay(fromRaw)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := parseDay(toRaw)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	ctx := cmd.Context()
	db, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	xlsx, err := export.NewService(repo.NewScanJobRepository(db, logger), logger).ExportScansXLSX(ctx, from, to)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, xlsx, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(xlsx))
	return nil
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("must be YYYY-MM-DD")
	}
	return &t, nil
}
