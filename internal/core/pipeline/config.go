package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core/ocr"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

// NewScannerFromConfig builds the OCR engine, keyword lists and Scanner the
// configuration names.
func NewScannerFromConfig(cfg *common.Config, logger *slog.Logger) (*Scanner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	engine, err := ocr.NewEngine(cfg.OCR.Engine, cfg.OCR.TesseractBin, cfg.OCR.TessdataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("ocr engine: %w", err)
	}
	kw, err := parse.LoadKeywords(cfg.Parse.KeywordsFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("scanner configured",
		"engine", engine.Name(),
		"keywords_file", cfg.Parse.KeywordsFile,
		"surnames", len(kw.Surnames),
	)
	source := ocr.NewExtractor(ocr.Config{ArtifactCacheDir: cfg.OCR.ArtifactCacheDir}, engine, logger)
	return NewScanner(source, parse.NewExtractor(kw), logger), nil
}
