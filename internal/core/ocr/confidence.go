package ocr

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// heuristicConfidence estimates 0..100 from the text alone: longer text with
// a letter-heavy mix scores higher, saturating at 100 characters of letters.
// Used only when the engine cannot report a confidence of its own.
func heuristicConfidence(txt string) float64 {
	trimmed := strings.TrimSpace(txt)
	if trimmed == "" {
		return 0
	}
	var alpha, digit int
	for _, r := range txt {
		switch {
		case unicode.IsLetter(r):
			alpha++
		case unicode.IsDigit(r):
			digit++
		}
	}
	ratio := float64(alpha) / float64(max(1, alpha+digit))
	c := math.Min(1, float64(utf8.RuneCountInString(trimmed))/100*ratio)
	return math.Round(c*10000) / 100
}
