//go:build !gosseract

package ocr

import "errors"

// GosseractAvailable reports whether the cgo engine was compiled in.
const GosseractAvailable = false

// NewGosseractEngine fails unless built with -tags gosseract.
func NewGosseractEngine(string) (Engine, error) {
	return nil, errors.New("gosseract engine not compiled in; rebuild with -tags gosseract")
}
