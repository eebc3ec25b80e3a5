package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/certscan/constants"
	"github.com/joseph-ayodele/certscan/internal/core/ocr"
	"github.com/joseph-ayodele/certscan/internal/core/pipeline"
	"github.com/joseph-ayodele/certscan/internal/server"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image]",
	Short: "Extract certificate fields from one image",
	Long: `Run OCR on a JPEG, PNG, GIF, BMP, WEBP or TIFF image and print the
extracted fields one per line, followed by any validation errors.

With --addr the image is sent to a running certscand instead and the scan
is persisted there.`,
	Example: `  certscan extract marksheet.jpg
  certscan extract cert.png --json
  certscan extract cert.png --addr localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractOutput is the --json shape.
type ExtractOutput struct {
	File         string            `json:"file"`
	JobID        string            `json:"job_id,omitempty"`
	Fields       map[string]string `json:"fields"`
	Formatted    string            `json:"formatted"`
	Valid        bool              `json:"valid"`
	Errors       []string          `json:"errors"`
	Confidence   int               `json:"confidence"`
	ProcessingMs int64             `json:"processing_ms"`
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("json", false, "Output as JSON")
	extractCmd.Flags().String("addr", "", "certscand gRPC address; empty runs locally")
	extractCmd.Flags().Duration("timeout", 2*time.Minute, "Processing timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	addr, _ := cmd.Flags().GetString("addr")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	path := args[0]
	var (
		out ExtractOutput
		err error
	)
	if addr != "" {
		out, err = extractRemote(ctx, addr, path)
	} else {
		out, err = extractLocal(ctx, path)
	}
	if err != nil {
		return err
	}
	return printExtract(cmd.OutOrStdout(), out, jsonOutput)
}

func extractLocal(ctx context.Context, path string) (ExtractOutput, error) {
	scanner, err := pipeline.NewScannerFromConfig(cfg, logger)
	if err != nil {
		return ExtractOutput{}, err
	}
	res, err := scanner.Scan(ctx, ocr.FileUpload(path))
	if err != nil {
		return ExtractOutput{}, err
	}
	return ExtractOutput{
		File:         filepath.Base(path),
		Fields:       res.Fields.Map(),
		Formatted:    res.Formatted,
		Valid:        res.Validation.IsValid,
		Errors:       res.Validation.Errors,
		Confidence:   res.Recognized.Confidence,
		ProcessingMs: res.Recognized.ProcessingTimeMs(),
	}, nil
}

func extractRemote(ctx context.Context, addr, path string) (ExtractOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ExtractOutput{}, fmt.Errorf("read %s: %w", path, err)
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return ExtractOutput{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	req, err := structpb.NewStruct(map[string]any{
		"filename":   filepath.Base(path),
		"media_type": constants.MediaTypeForExt(filepath.Ext(path)),
		"content":    base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return ExtractOutput{}, err
	}
	resp, err := server.NewScanServiceClient(conn).Extract(ctx, req)
	if err != nil {
		return ExtractOutput{}, err
	}

	// Round-trip through JSON to reuse the struct tags.
	b, err := resp.MarshalJSON()
	if err != nil {
		return ExtractOutput{}, err
	}
	var out ExtractOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return ExtractOutput{}, fmt.Errorf("decode response: %w", err)
	}
	out.File = filepath.Base(path)
	return out, nil
}

func printExtract(w io.Writer, out ExtractOutput, asJSON bool) error {
	if asJSON {
		if out.Errors == nil {
			out.Errors = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if out.Formatted != "" {
		fmt.Fprintln(w, out.Formatted)
	} else {
		fmt.Fprintln(w, "No fields recognized")
	}
	fmt.Fprintf(w, "\nConfidence: %d  Time: %dms\n", out.Confidence, out.ProcessingMs)
	if out.Valid {
		fmt.Fprintln(w, "Valid: yes")
		return nil
	}
	fmt.Fprintf(w, "Valid: no (%s)\n", strings.Join(out.Errors, "; "))
	return nil
}
