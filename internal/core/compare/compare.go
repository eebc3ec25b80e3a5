// Package compare scores OCR fields against a previously stored record to
// decide between auto-approval and manual review.
package compare

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

// DefaultThreshold is the match percentage at or above which a scan is auto-approved.
const DefaultThreshold = 80.0

// StoredRecord is the ledger entry a scan is checked against.
type StoredRecord struct {
	StudentName string `json:"student_name"`
	StudentRoll string `json:"student_roll"`
	UIN         string `json:"uin"`
	Marks       string `json:"marks"`
	DateIssued  string `json:"date_issued"`
}

// Check names one comparison: an OCR field against a stored attribute.
type Check struct {
	Key    string
	Field  parse.Field
	stored func(StoredRecord) string
	equal  func(a, b string) bool
}

// Checks are the comparisons made, weighted equally.
var Checks = []Check{
	{Key: "student_name", Field: parse.StudentName, stored: func(r StoredRecord) string { return r.StudentName }, equal: textEqual},
	{Key: "student_roll", Field: parse.StudentRoll, stored: func(r StoredRecord) string { return r.StudentRoll }, equal: codeEqual},
	{Key: "certificate_number", Field: parse.CertificateNumber, stored: func(r StoredRecord) string { return r.UIN }, equal: codeEqual},
	{Key: "uin", Field: parse.UIN, stored: func(r StoredRecord) string { return r.UIN }, equal: codeEqual},
	{Key: "marks", Field: parse.Marks, stored: func(r StoredRecord) string { return r.Marks }, equal: marksEqual},
	{Key: "date_issued", Field: parse.DateIssued, stored: func(r StoredRecord) string { return r.DateIssued }, equal: dateEqual},
}

// Report is the outcome of Compare.
type Report struct {
	Comparison  map[string]bool `json:"comparison"`
	Matches     int             `json:"matches"`
	Total       int             `json:"total"`
	Percentage  float64         `json:"match_percentage"`
	AutoApprove bool            `json:"auto_approve"`
}

// Comparer holds the approval threshold.
type Comparer struct {
	threshold float64
}

// New returns a Comparer; a non-positive threshold means DefaultThreshold.
func New(threshold float64) *Comparer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Comparer{threshold: threshold}
}

func (c *Comparer) Threshold() float64 { return c.threshold }

// Compare checks every field in Checks. A check passes only when the OCR value
// is present and equal to the stored value after normalization.
func (c *Comparer) Compare(got parse.ExtractedFields, stored StoredRecord) Report {
	rep := Report{Comparison: make(map[string]bool, len(Checks)), Total: len(Checks)}
	for _, ch := range Checks {
		v, ok := got.Get(ch.Field)
		s := ch.stored(stored)
		match := ok && strings.TrimSpace(s) != "" && ch.equal(v, s)
		rep.Comparison[ch.Key] = match
		if match {
			rep.Matches++
		}
	}
	rep.Percentage = math.Round(float64(rep.Matches)/float64(rep.Total)*10000) / 100
	rep.AutoApprove = rep.Percentage >= c.threshold
	return rep
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func textEqual(a, b string) bool { return fold(a) == fold(b) }

func codeEqual(a, b string) bool {
	strip := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == ' ' || r == '-' || r == '/' {
				return -1
			}
			return r
		}, strings.ToUpper(strings.TrimSpace(s)))
	}
	return strip(a) == strip(b)
}

func marksEqual(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		return math.Abs(fa-fb) < 1e-9
	}
	return textEqual(a, b)
}

func dateEqual(a, b string) bool {
	return canonicalDate(a) == canonicalDate(b)
}

// canonicalDate maps ISO and separator variants onto DD/MM/YYYY.
func canonicalDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	s = parse.NormalizeDate(s)
	s = strings.NewReplacer("-", "/", ".", "/").Replace(s)
	parts := strings.Split(s, "/")
	if len(parts) == 3 {
		for i := 0; i < 2; i++ {
			if len(parts[i]) == 1 {
				parts[i] = "0" + parts[i]
			}
		}
		return strings.Join(parts, "/")
	}
	return s
}
