package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

func fields(m map[string]string) parse.ExtractedFields { return parse.FromMap(m) }

func TestCompareAllMatch(t *testing.T) {
	got := fields(map[string]string{
		"studentName":       "RAJESH  KUMAR",
		"studentRoll":       "CE2021045",
		"certificateNumber": "UIN-778899",
		"uin":               "UIN778899",
		"marks":             "81.50",
		"dateIssued":        "15/08/2024",
	})
	stored := StoredRecord{
		StudentName: "Rajesh Kumar",
		StudentRoll: "ce2021045",
		UIN:         "UIN778899",
		Marks:       "81.5",
		DateIssued:  "2024-08-15",
	}
	rep := New(0).Compare(got, stored)
	assert.Equal(t, 6, rep.Matches)
	assert.Equal(t, 6, rep.Total)
	assert.Equal(t, 100.0, rep.Percentage)
	assert.True(t, rep.AutoApprove)
}

func TestCompareThreshold(t *testing.T) {
	got := fields(map[string]string{
		"studentName": "Rajesh Kumar",
		"studentRoll": "CE2021045",
		"uin":         "UIN778899",
		"marks":       "81.5",
		"dateIssued":  "5/8/2024",
	})
	stored := StoredRecord{
		StudentName: "Rajesh Kumar",
		StudentRoll: "CE2021045",
		UIN:         "UIN778899",
		Marks:       "81.5",
		DateIssued:  "05/08/2024",
	}
	rep := New(80).Compare(got, stored)
	// certificate_number absent in OCR output
	assert.False(t, rep.Comparison["certificate_number"])
	assert.Equal(t, 5, rep.Matches)
	assert.Equal(t, 83.33, rep.Percentage)
	assert.True(t, rep.AutoApprove)

	rep = New(90).Compare(got, stored)
	assert.False(t, rep.AutoApprove)
}

func TestCompareEmptyStoredNeverMatches(t *testing.T) {
	rep := New(0).Compare(parse.ExtractedFields{}, StoredRecord{})
	assert.Zero(t, rep.Matches)
	assert.Zero(t, rep.Percentage)
	assert.False(t, rep.AutoApprove)
	assert.Len(t, rep.Comparison, len(Checks))
}

func TestCanonicalDate(t *testing.T) {
	cases := map[string]string{
		"2024-08-15":    "15/08/2024",
		"15-08-2024":    "15/08/2024",
		"15.8.2024":     "15/08/2024",
		"June 27, 2025": "27/06/2025",
	}
	for in, want := range cases {
		assert.Equal(t, want, canonicalDate(in), in)
	}
}
