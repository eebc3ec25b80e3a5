package constants

import "strings"

// JobStatus is the canonical status for rows in scan_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusOCROK   JobStatus = "OCR_OK" // text recognized
	JobStatusParsed  JobStatus = "PARSED" // fields extracted and validated
	JobStatusFailed  JobStatus = "FAILED" // terminal failure
)

// RiskLevel is the label returned by the fraud-scoring service.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// NeedsReview reports whether a scan with this risk must be held for manual review.
func (r RiskLevel) NeedsReview() bool {
	return r == RiskHigh || r == RiskMedium
}

// CanonicalRisk maps a raw label onto a RiskLevel. Unknown labels are MEDIUM.
func CanonicalRisk(label string) RiskLevel {
	switch r := RiskLevel(strings.ToUpper(strings.TrimSpace(label))); r {
	case RiskLow, RiskMedium, RiskHigh:
		return r
	}
	return RiskMedium
}
