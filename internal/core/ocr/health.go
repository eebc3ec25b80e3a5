package ocr

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// selfCheckText is what the test card says; the check only needs the engine
// to run, not to read it back.
const selfCheckText = "Test OCR"

// testCard renders selfCheckText black on white, scaled up so the glyphs are
// a size tesseract expects.
func testCard() image.Image {
	img := imaging.New(100, 24, color.White)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 17),
	}
	d.DrawString(selfCheckText)
	return imaging.Resize(img, 300, 0, imaging.NearestNeighbor)
}

// SelfCheck runs the engine over a generated test card. A nil error means the
// engine is installed and callable.
func SelfCheck(ctx context.Context, engine Engine) error {
	dir, err := os.MkdirTemp("", "certscan-selfcheck-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "card.png")
	if err := imaging.Save(testCard(), path); err != nil {
		return fmt.Errorf("write test card: %w", err)
	}
	if _, err := engine.Recognize(ctx, path); err != nil {
		return fmt.Errorf("%s self-check: %w", engine.Name(), err)
	}
	return nil
}

// SelfCheck runs the package SelfCheck against the extractor's engine.
func (e *Extractor) SelfCheck(ctx context.Context) error {
	err := SelfCheck(ctx, e.engine)
	if err != nil {
		e.logger.Warn("ocr.selfcheck.failed", "engine", e.engine.Name(), "error", err)
		return err
	}
	e.logger.Debug("ocr.selfcheck.ok", "engine", e.engine.Name())
	return nil
}
