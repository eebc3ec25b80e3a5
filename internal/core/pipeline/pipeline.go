package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/certscan/internal/core/ocr"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

// TextSource is the text-acquisition step.
type TextSource interface {
	ExtractText(ctx context.Context, up ocr.Upload) (ocr.RecognizedText, error)
}

// Result is everything one scan produces.
type Result struct {
	Recognized ocr.RecognizedText
	Document   parse.NormalizedDocument
	Fields     parse.ExtractedFields
	Validation parse.ValidationResult
	Formatted  string
}

// Scanner runs one image through acquisition, extraction and validation.
// It keeps no per-document state; every call builds its own Result.
type Scanner struct {
	source    TextSource
	extractor *parse.Extractor
	logger    *slog.Logger
}

func NewScanner(source TextSource, extractor *parse.Extractor, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if extractor == nil {
		extractor = parse.NewExtractor(parse.DefaultKeywords())
	}
	return &Scanner{source: source, extractor: extractor, logger: logger}
}

// Scan returns either a full Result or the acquisition error; there is no
// partial result. Missing fields are not errors.
func (s *Scanner) Scan(ctx context.Context, up ocr.Upload) (Result, error) {
	rec, err := s.source.ExtractText(ctx, up)
	if err != nil {
		return Result{}, err
	}
	res := s.ScanText(rec.RawText)
	res.Recognized = rec

	s.logger.Debug("scan.ok",
		"file", up.Name,
		"confidence", rec.Confidence,
		"duration_ms", rec.ProcessingTimeMs(),
		"fields", res.Fields.Present(),
		"valid", res.Validation.IsValid,
	)
	return res, nil
}

// ScanText runs the text-only part of the pipeline.
func (s *Scanner) ScanText(raw string) Result {
	doc, fields := s.extractor.Parse(raw)
	return Result{
		Recognized: ocr.RecognizedText{RawText: raw},
		Document:   doc,
		Fields:     fields,
		Validation: parse.Validate(fields),
		Formatted:  parse.Format(fields),
	}
}

// HealthCheck runs the text source's self-check when it has one.
func (s *Scanner) HealthCheck(ctx context.Context) error {
	if c, ok := s.source.(interface{ SelfCheck(context.Context) error }); ok {
		return c.SelfCheck(ctx)
	}
	return nil
}
