package repository

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	scanJobsTable       = "scan_jobs"
	colID               = "id"
	colFilename         = "filename"
	colMediaType        = "media_type"
	colContentHash      = "content_hash"
	colStatus           = "status"
	colRawText          = "raw_text"
	colConfidence       = "confidence"
	colProcessingMs     = "processing_ms"
	colExtractedJSON    = "extracted_json"
	colValidationErrors = "validation_errors"
	colFraudRisk        = "fraud_risk"
	colMatchPercentage  = "match_percentage"
	colNeedsReview      = "needs_review"
	colErrorMessage     = "error_message"
	colCreatedAt        = "created_at"
	colFinishedAt       = "finished_at"
)

// scanJobColumns is the select order used by scanRow.
var scanJobColumns = []string{
	colID, colFilename, colMediaType, colContentHash, colStatus,
	colRawText, colConfidence, colProcessingMs, colExtractedJSON, colValidationErrors,
	colFraudRisk, colMatchPercentage, colNeedsReview, colErrorMessage,
	colCreatedAt, colFinishedAt,
}

var (
	// ScanJobsColumns holds the columns for the "scan_jobs" table.
	ScanJobsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeString, Size: 36},
		{Name: colFilename, Type: field.TypeString},
		{Name: colMediaType, Type: field.TypeString, Size: 64},
		{Name: colContentHash, Type: field.TypeString, Size: 64},
		{Name: colStatus, Type: field.TypeString, Size: 16},
		{Name: colRawText, Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: colConfidence, Type: field.TypeInt, Nullable: true},
		{Name: colProcessingMs, Type: field.TypeInt64, Nullable: true},
		{Name: colExtractedJSON, Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: colValidationErrors, Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: colFraudRisk, Type: field.TypeString, Nullable: true, Size: 16},
		{Name: colMatchPercentage, Type: field.TypeFloat64, Nullable: true},
		{Name: colNeedsReview, Type: field.TypeBool, Default: false},
		{Name: colErrorMessage, Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: colCreatedAt, Type: field.TypeInt64},
		{Name: colFinishedAt, Type: field.TypeInt64, Nullable: true},
	}
	// ScanJobsTable holds the schema information for the "scan_jobs" table.
	ScanJobsTable = &schema.Table{
		Name:       scanJobsTable,
		Columns:    ScanJobsColumns,
		PrimaryKey: []*schema.Column{ScanJobsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "scanjob_created_at",
				Unique:  false,
				Columns: []*schema.Column{ScanJobsColumns[14]},
			},
			{
				Name:    "scanjob_content_hash",
				Unique:  false,
				Columns: []*schema.Column{ScanJobsColumns[3]},
			},
		},
	}
)
