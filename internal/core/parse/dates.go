package parse

import (
	"fmt"
	"strconv"
	"strings"
)

var months = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	// abbreviations show up on receipts
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

const monthNames = `january|february|march|april|may|june|july|august|september|october|november|december`

// NormalizeDate turns "Month DD, YYYY" and "DD Month YYYY" into DD/MM/YYYY.
// A month-name date that does not parse ("June 45, 2025") yields "". Anything
// else keeps only digits and the separators / - .
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if hasMonthWord(s) {
		d, _ := textualDate(s)
		return d
	}
	if strings.Contains(s, ",") {
		if d, ok := textualDate(s); ok {
			return d
		}
	}
	return keepDateChars(s)
}

func dateTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
}

func hasMonthWord(s string) bool {
	for _, tok := range dateTokens(s) {
		if _, ok := months[strings.ToLower(strings.TrimSuffix(tok, "."))]; ok {
			return true
		}
	}
	return false
}

func textualDate(s string) (string, bool) {
	var month, day int
	var year string
	for _, tok := range dateTokens(s) {
		tok = strings.TrimSuffix(tok, ".")
		if m, ok := months[strings.ToLower(tok)]; ok && month == 0 {
			month = m
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		switch {
		case len(tok) == 4 && year == "":
			year = tok
		case len(tok) <= 2 && day == 0 && n >= 1 && n <= 31:
			day = n
		}
	}
	if month == 0 || day == 0 || year == "" {
		return "", false
	}
	return fmt.Sprintf("%02d/%02d/%s", day, month, year), true
}

func keepDateChars(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '/' || r == '-' || r == '.' {
			return r
		}
		return -1
	}, s)
}
