package ocr

import (
	"fmt"
	"log/slog"
)

// NewEngine picks an engine by name: "tesseract" (CLI) or "gosseract" (cgo).
func NewEngine(name, tesseractBin, tessdataDir string, logger *slog.Logger) (Engine, error) {
	switch name {
	case "", "tesseract":
		return NewTesseractEngine(tesseractBin, tessdataDir, ExecRunner{Logger: logger}), nil
	case "gosseract":
		return NewGosseractEngine(tessdataDir)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", name)
	}
}
