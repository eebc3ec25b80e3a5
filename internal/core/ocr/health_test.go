package ocr

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCardHasInk(t *testing.T) {
	img := testCard()
	b := img.Bounds()
	assert.Equal(t, 300, b.Dx())

	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "the card must carry rendered text")
}

func TestSelfCheck(t *testing.T) {
	r := &fakeRunner{tsv: wordsTSV("95", "Test", "OCR")}
	require.NoError(t, SelfCheck(context.Background(), NewTesseractEngine("tesseract", "", r)))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "card.png", filepath.Base(r.calls[0][1]))

	r = &fakeRunner{err: errors.New("exec: \"tesseract\": executable file not found in $PATH")}
	err := SelfCheck(context.Background(), NewTesseractEngine("tesseract", "", r))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract self-check")

	e := newTestExtractor(&fakeRunner{err: errors.New("exit status 1")}, "")
	assert.Error(t, e.SelfCheck(context.Background()))
}
