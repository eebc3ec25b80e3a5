package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	repo "github.com/joseph-ayodele/certscan/internal/repository"
)

var dbhealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Ping the configured database and report stored scan counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		db, err := repo.Open(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.HealthCheck(ctx, time.Second); err != nil {
			return fmt.Errorf("DB health: FAIL (%w)", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "DB health: OK")

		if err := db.Migrate(ctx); err != nil {
			return err
		}
		jobs, err := repo.NewScanJobRepository(db, logger).List(ctx, repo.ListFilter{})
		if err != nil {
			return err
		}
		byStatus := map[string]int{}
		review := 0
		for _, j := range jobs {
			byStatus[j.Status]++
			if j.NeedsReview {
				review++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scans: %d (needs review: %d)\n", len(jobs), review)
		for status, n := range byStatus {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %d\n", status, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbhealthCmd)
}
