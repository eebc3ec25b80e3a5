package ocr

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fixed recognizer settings. They are not tunable per call so the same image
// always goes through the same recognizer configuration.
const (
	Language  = "eng"
	Whitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,/-:() "
	// ':' is whitelisted and therefore left out here; label patterns need it.
	Blacklist = "|{}[]~`@#$%^&*+=<>?;\"\\"
	// PSM 1: automatic page segmentation with orientation and script detection.
	PageSegMode = 1
	// OEM 1: LSTM (neural net) recognizer only.
	EngineMode = 1
)

// Recognition is what an engine returns for one image.
type Recognition struct {
	Text       string
	Confidence float64 // mean word confidence, 0..100; negative when unknown
	Warnings   []string
}

// Engine turns a PNG on disk into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, pngPath string) (Recognition, error)
}

// TesseractEngine drives the tesseract CLI through a Runner.
type TesseractEngine struct {
	Binary      string
	TessdataDir string
	Runner      Runner
}

// NewTesseractEngine returns an engine backed by the tesseract binary.
func NewTesseractEngine(binary, tessdataDir string, r Runner) *TesseractEngine {
	if binary == "" {
		binary = "tesseract"
	}
	if r == nil {
		r = ExecRunner{}
	}
	return &TesseractEngine{Binary: binary, TessdataDir: tessdataDir, Runner: r}
}

func (t *TesseractEngine) Name() string { return "tesseract" }

func (t *TesseractEngine) args(path string, extra ...string) []string {
	args := []string{
		path, "stdout",
		"-l", Language,
		"--oem", strconv.Itoa(EngineMode),
		"--psm", strconv.Itoa(PageSegMode),
		"-c", "tessedit_char_whitelist=" + Whitelist,
		"-c", "tessedit_char_blacklist=" + Blacklist,
		"-c", "preserve_interword_spaces=1",
	}
	if t.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.TessdataDir)
	}
	return append(args, extra...)
}

// Recognize runs tesseract once in TSV mode and rebuilds the text from the
// word rows, so one pass yields both text and per-word confidences.
func (t *TesseractEngine) Recognize(ctx context.Context, path string) (Recognition, error) {
	out, errb, err := t.Runner.Run(ctx, t.Binary, t.args(path, "tsv")...)
	if err != nil {
		return Recognition{Warnings: []string{strings.TrimSpace(string(errb))}}, fmt.Errorf("tesseract: %w", err)
	}
	text, conf, ok := parseTSV(string(out))
	rec := Recognition{Text: text, Confidence: -1}
	if ok {
		rec.Confidence = conf
	}
	return rec, nil
}

// parseTSV joins level-5 (word) rows into lines, starting a new line whenever
// block, paragraph or line number changes and leaving a blank line between
// blocks. It also averages the conf column over words with conf >= 0; ok is
// false when no word carried one.
func parseTSV(tsv string) (text string, conf float64, ok bool) {
	var (
		b        strings.Builder
		sum, n   float64
		lastLine string
		lastBlk  string
	)
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(strings.TrimRight(ln, "\r"), "\t")
		// level, page, block, par, line, word, left, top, width, height, conf, text
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		word := strings.TrimSpace(cols[11])
		if word == "" {
			continue
		}
		blk := cols[1] + "." + cols[2]
		line := blk + "." + cols[3] + "." + cols[4]
		switch {
		case b.Len() == 0:
		case blk != lastBlk:
			b.WriteString("\n\n")
		case line != lastLine:
			b.WriteByte('\n')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(word)
		lastLine, lastBlk = line, blk

		if v, err := strconv.ParseFloat(strings.TrimSpace(cols[10]), 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	if n == 0 {
		return b.String(), 0, false
	}
	return b.String(), sum / n, true
}

func roundConfidence(c float64) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return int(math.Round(c))
}
