package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ScanJob represents one processed image for data transfer between layers.
type ScanJob struct {
	ID               uuid.UUID       `json:"id"`
	Filename         string          `json:"filename"`
	MediaType        string          `json:"media_type"`
	ContentHash      string          `json:"content_hash"`
	Status           string          `json:"status"`
	RawText          *string         `json:"raw_text,omitempty"`
	Confidence       *int            `json:"confidence,omitempty"`
	ProcessingMs     *int64          `json:"processing_ms,omitempty"`
	ExtractedJSON    json.RawMessage `json:"extracted_json,omitempty"`
	ValidationErrors []string        `json:"validation_errors,omitempty"`
	FraudRisk        *string         `json:"fraud_risk,omitempty"`
	MatchPercentage  *float64        `json:"match_percentage,omitempty"`
	NeedsReview      bool            `json:"needs_review"`
	ErrorMessage     *string         `json:"error_message,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	FinishedAt       *time.Time      `json:"finished_at,omitempty"`
}

// Valid reports whether parsing finished without validation errors.
func (j *ScanJob) Valid() bool {
	return j.ExtractedJSON != nil && len(j.ValidationErrors) == 0
}
