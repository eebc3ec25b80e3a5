package parse

import (
	"strings"
	"unicode"
)

// NormalizedDocument is allow-listed OCR text and its non-empty lines.
type NormalizedDocument struct {
	CleanedText string
	Lines       []string
}

func allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '.', r == ',', r == '/', r == ':', r == '(', r == ')':
		return true
	}
	return unicode.IsSpace(r) && r < unicode.MaxASCII
}

// Normalize replaces characters outside the allow-list with spaces, collapses
// horizontal whitespace, and splits into trimmed non-empty lines. Line breaks
// survive so the line-oriented extractor can work on them; CleanedText is the
// lines joined by '\n', which makes Normalize idempotent on CleanedText.
func Normalize(raw string) NormalizedDocument {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
			return '\n'
		}
		if !allowed(r) {
			return ' '
		}
		return r
	}, raw)

	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return NormalizedDocument{
		CleanedText: strings.Join(lines, "\n"),
		Lines:       lines,
	}
}
