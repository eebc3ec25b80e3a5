// Package ocr is the text-acquisition step: it accepts an image upload, checks
// its media type, converts it to PNG and runs a fixed-configuration OCR engine.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/certscan/constants"
	"github.com/joseph-ayodele/certscan/internal/common"
)

// Upload is one image handed to the pipeline.
type Upload struct {
	Name      string
	MediaType string // declared media type, e.g. "image/png"
	Body      io.Reader
}

// FileUpload opens path lazily; the media type comes from its extension.
func FileUpload(path string) Upload {
	return Upload{
		Name:      filepath.Base(path),
		MediaType: constants.MediaTypeForExt(filepath.Ext(path)),
		Body:      &lazyFile{path: path},
	}
}

// BytesUpload wraps in-memory content.
func BytesUpload(name, mediaType string, data []byte) Upload {
	return Upload{Name: name, MediaType: mediaType, Body: bytes.NewReader(data)}
}

type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Read(p []byte) (int, error) {
	if l.f == nil {
		f, err := os.Open(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Read(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	return l.f.Close()
}

// RecognizedText is the output of one OCR invocation.
type RecognizedText struct {
	RawText        string
	Confidence     int // 0..100
	ProcessingTime time.Duration
	Engine         string
	ContentHash    string
	Warnings       []string
}

// ProcessingTimeMs is ProcessingTime in whole milliseconds.
func (r RecognizedText) ProcessingTimeMs() int64 { return r.ProcessingTime.Milliseconds() }

// Config controls where acquisition keeps intermediate artifacts.
type Config struct {
	// ArtifactCacheDir, when set, keeps converted PNGs keyed by content hash.
	ArtifactCacheDir string
	// MaxBytes caps an upload; 0 means 25 MiB.
	MaxBytes int64
}

// Extractor validates uploads and runs the engine.
type Extractor struct {
	cfg    Config
	engine Engine
	logger *slog.Logger
}

func NewExtractor(cfg Config, engine Engine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 25 << 20
	}
	if engine == nil {
		engine = NewTesseractEngine("", "", ExecRunner{Logger: logger})
	}
	return &Extractor{cfg: cfg, engine: engine, logger: logger}
}

// ExtractText reads the upload, rejects non-image media types before any
// engine call, and returns the engine's text with a rounded confidence.
// There are no retries: a failed engine call is returned as ErrExtractionFailure.
func (e *Extractor) ExtractText(ctx context.Context, up Upload) (RecognizedText, error) {
	start := time.Now()
	mt := constants.NormalizeMediaType(up.MediaType)
	if !constants.IsAcceptedMediaType(mt) {
		e.logger.Warn("unsupported media type", "file", up.Name, "media_type", up.MediaType)
		return RecognizedText{}, common.UnsupportedFileType(up.MediaType)
	}
	if up.Body == nil {
		return RecognizedText{}, common.ExtractionFailure(errors.New("empty upload"))
	}

	data, err := io.ReadAll(io.LimitReader(up.Body, e.cfg.MaxBytes+1))
	if c, ok := up.Body.(io.Closer); ok {
		_ = c.Close()
	}
	if err != nil {
		e.logger.Error("read upload failed", "file", up.Name, "error", err)
		return RecognizedText{}, common.ExtractionFailure(fmt.Errorf("read %s: %w", up.Name, err))
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return RecognizedText{}, common.ExtractionFailure(fmt.Errorf("%s exceeds %d bytes", up.Name, e.cfg.MaxBytes))
	}
	if len(data) == 0 {
		return RecognizedText{}, common.ExtractionFailure(fmt.Errorf("%s is empty", up.Name))
	}

	hashHex, ok := contentHashFromCtx(ctx)
	if !ok {
		hashHex = ContentHash(data)
	}

	png, cleanup, err := convertToPNG(e.logger, data, e.cfg.ArtifactCacheDir, hashHex)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		e.logger.Error("image conversion failed", "file", up.Name, "media_type", mt, "error", err)
		return RecognizedText{}, common.ExtractionFailure(err)
	}

	rec, err := e.engine.Recognize(ctx, png)
	if err != nil {
		e.logger.Error("ocr engine failed", "file", up.Name, "engine", e.engine.Name(), "error", err)
		return RecognizedText{Warnings: rec.Warnings}, common.ExtractionFailure(err)
	}

	conf := rec.Confidence
	warnings := rec.Warnings
	if conf < 0 {
		conf = heuristicConfidence(rec.Text)
		warnings = append(warnings, "engine confidence unavailable; using heuristic")
	}

	out := RecognizedText{
		RawText:        rec.Text,
		Confidence:     roundConfidence(conf),
		ProcessingTime: time.Since(start),
		Engine:         e.engine.Name(),
		ContentHash:    hashHex,
		Warnings:       warnings,
	}
	e.logger.Debug("ocr.ok",
		"file", up.Name,
		"engine", out.Engine,
		"confidence", out.Confidence,
		"chars", len(out.RawText),
		"duration_ms", out.ProcessingTimeMs(),
	)
	return out, nil
}
