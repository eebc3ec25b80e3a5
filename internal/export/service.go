package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/certscan/internal/core/parse"
	"github.com/joseph-ayodele/certscan/internal/entity"
	"github.com/joseph-ayodele/certscan/internal/repository"
)

// SheetName is the worksheet that holds one row per scan job.
const SheetName = "Scans"

// Headers are the export columns in order.
var Headers = []string{
	"Scanned At",
	"File",
	"Status",
	"Student Name",
	"Roll Number",
	"Certificate Number",
	"Institution",
	"Course",
	"Marks",
	"Date Issued",
	"UIN",
	"Confidence",
	"Fraud Risk",
	"Needs Review",
	"Errors",
}

// ScanLister is the slice of the scan job store the export needs.
type ScanLister interface {
	List(ctx context.Context, f repository.ListFilter) ([]*entity.ScanJob, error)
}

// Service produces XLSX bytes for the manual-review desk.
type Service struct {
	scans  ScanLister
	logger *slog.Logger
}

func NewService(scans ScanLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{scans: scans, logger: logger}
}

// ExportScansXLSX returns an XLSX workbook (as bytes) for the given date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all scans.
func (s *Service) ExportScansXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	filter := repository.ListFilter{}
	if from != nil {
		filter.From = dayStart(*from)
	}
	if to != nil {
		filter.To = dayStart(*to).AddDate(0, 0, 1)
	} else if from != nil {
		filter.To = dayStart(time.Now()).AddDate(0, 0, 1)
	}

	jobs, err := s.scans.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}

	for i, job := range jobs {
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+2), rowFor(job)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 20) // timestamp
	_ = f.SetColWidth(SheetName, "B", "B", 28) // file
	_ = f.SetColWidth(SheetName, "D", "H", 26) // names
	_ = f.SetColWidth(SheetName, "O", "O", 48) // errors

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(jobs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func rowFor(job *entity.ScanJob) *[]any {
	var fields parse.ExtractedFields
	if len(job.ExtractedJSON) > 0 {
		_ = json.Unmarshal(job.ExtractedJSON, &fields)
	}
	row := []any{
		job.CreatedAt.Format("2006-01-02 15:04:05"),
		job.Filename,
		job.Status,
	}
	for _, fld := range parse.Fields {
		v, _ := fields.Get(fld)
		row = append(row, v)
	}

	var confidence any = ""
	if job.Confidence != nil {
		confidence = *job.Confidence
	}
	risk := ""
	if job.FraudRisk != nil {
		risk = *job.FraudRisk
	}
	review := "no"
	if job.NeedsReview {
		review = "yes"
	}
	errs := strings.Join(job.ValidationErrors, "; ")
	if job.ErrorMessage != nil {
		errs = truncate(*job.ErrorMessage, 140)
	}
	row = append(row, confidence, risk, review, errs)
	return &row
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
