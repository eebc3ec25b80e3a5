//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// GosseractAvailable reports whether the cgo engine was compiled in.
const GosseractAvailable = true

// GosseractEngine runs libtesseract in-process through gosseract.
type GosseractEngine struct {
	TessdataDir string
}

// NewGosseractEngine returns the in-process engine.
func NewGosseractEngine(tessdataDir string) (Engine, error) {
	return &GosseractEngine{TessdataDir: tessdataDir}, nil
}

func (g *GosseractEngine) Name() string { return "gosseract" }

func (g *GosseractEngine) configure(client *gosseract.Client) error {
	if g.TessdataDir != "" {
		client.TessdataPrefix = g.TessdataDir
	}
	if err := client.SetLanguage(Language); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	if err := client.SetWhitelist(Whitelist); err != nil {
		return fmt.Errorf("set whitelist: %w", err)
	}
	if err := client.SetBlacklist(Blacklist); err != nil {
		return fmt.Errorf("set blacklist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO_OSD); err != nil {
		return fmt.Errorf("set page seg mode: %w", err)
	}
	if err := client.SetVariable(gosseract.SettableVariable("preserve_interword_spaces"), "1"); err != nil {
		return fmt.Errorf("set preserve_interword_spaces: %w", err)
	}
	return nil
}

// writeInitConfig writes a tesseract config file carrying the engine mode.
// libtesseract reads tessedit_ocr_engine_mode only at Init, and gosseract
// initializes with OEM_DEFAULT, which defers to a config file passed to Init.
func writeInitConfig() (string, func(), error) {
	f, err := os.CreateTemp("", "certscan-tess-*.cfg")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := fmt.Fprintf(f, "tessedit_ocr_engine_mode %d\n", EngineMode); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return f.Name(), cleanup, nil
}

// Recognize runs in a goroutine so the caller's context can abandon it.
func (g *GosseractEngine) Recognize(ctx context.Context, path string) (Recognition, error) {
	type result struct {
		rec Recognition
		err error
	}
	ch := make(chan result, 1)
	go func() {
		rec, err := g.recognize(path)
		ch <- result{rec, err}
	}()
	select {
	case <-ctx.Done():
		return Recognition{}, ctx.Err()
	case r := <-ch:
		return r.rec, r.err
	}
}

func (g *GosseractEngine) recognize(path string) (Recognition, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	cfgPath, cleanup, err := writeInitConfig()
	if err != nil {
		return Recognition{}, fmt.Errorf("engine mode config: %w", err)
	}
	defer cleanup()
	if err := client.SetConfigFile(cfgPath); err != nil {
		return Recognition{}, fmt.Errorf("set config file: %w", err)
	}
	if err := g.configure(client); err != nil {
		return Recognition{}, err
	}
	if err := client.SetImage(path); err != nil {
		return Recognition{}, fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("recognize: %w", err)
	}

	rec := Recognition{Text: text, Confidence: -1}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("word confidences: %v", err))
		return rec, nil
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	if len(boxes) > 0 {
		rec.Confidence = sum / float64(len(boxes))
	}
	return rec, nil
}
