package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/certscan/internal/core/compare"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare extracted fields against a stored student record",
	Long: `Read extracted fields (camelCase keys, as printed by "extract --json")
and a stored record (student_name, student_roll, uin, marks, date_issued)
and print the per-field comparison, match percentage and auto-approval.`,
	Example: `  certscan compare --fields fields.json --stored record.json`,
	Args:    cobra.NoArgs,
	RunE:    runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("fields", "", "JSON file with extracted fields")
	compareCmd.Flags().String("stored", "", "JSON file with the stored record")
	_ = compareCmd.MarkFlagRequired("fields")
	_ = compareCmd.MarkFlagRequired("stored")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	fieldsPath, _ := cmd.Flags().GetString("fields")
	storedPath, _ := cmd.Flags().GetString("stored")

	var raw map[string]any
	if err := readJSON(fieldsPath, &raw); err != nil {
		return err
	}
	// Accept both a bare field map and the "extract --json" document.
	if nested, ok := raw["fields"].(map[string]any); ok {
		raw = nested
	}
	m := map[string]string{}
	for k, v := range raw {
		if _, ok := parse.FieldByKey(k); !ok {
			return fmt.Errorf("%s: unknown field %q", fieldsPath, k)
		}
		if s, ok := v.(string); ok {
			m[k] = s
		}
	}

	var stored compare.StoredRecord
	if err := readJSON(storedPath, &stored); err != nil {
		return err
	}

	report := compare.New(cfg.Review.MatchThreshold).Compare(parse.FromMap(m), stored)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
