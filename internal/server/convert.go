package server

import (
	"encoding/json"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/certscan/internal/core"
	"github.com/joseph-ayodele/certscan/internal/core/compare"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
	"github.com/joseph-ayodele/certscan/internal/entity"
)

func stringList(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

func fieldsMap(x parse.ExtractedFields) map[string]any {
	out := map[string]any{}
	for k, v := range x.Map() {
		out[k] = v
	}
	return out
}

// fieldsFrom reads a nested string map, ignoring non-string values.
func fieldsFrom(s *structpb.Struct) map[string]string {
	out := map[string]string{}
	for k, v := range s.GetFields() {
		if sv, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			out[k] = sv.StringValue
		}
	}
	return out
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func toPBOutcome(out core.Outcome) (*structpb.Struct, error) {
	res := out.Result
	m := map[string]any{
		"job_id":        out.JobID.String(),
		"fields":        fieldsMap(res.Fields),
		"formatted":     res.Formatted,
		"valid":         res.Validation.IsValid,
		"errors":        stringList(res.Validation.Errors),
		"raw_text":      res.Recognized.RawText,
		"confidence":    res.Recognized.Confidence,
		"processing_ms": res.Recognized.ProcessingTimeMs(),
		"needs_review":  out.NeedsReview,
		"fraud_risk":    "",
	}
	if out.FraudRisk != nil {
		m["fraud_risk"] = string(*out.FraudRisk)
	}
	return structpb.NewStruct(m)
}

func toPBScanJob(job *entity.ScanJob) (*structpb.Struct, error) {
	var fields parse.ExtractedFields
	if len(job.ExtractedJSON) > 0 {
		if err := json.Unmarshal(job.ExtractedJSON, &fields); err != nil {
			return nil, err
		}
	}
	m := map[string]any{
		"job_id":       job.ID.String(),
		"filename":     job.Filename,
		"status":       job.Status,
		"fields":       fieldsMap(fields),
		"formatted":    parse.Format(fields),
		"valid":        job.Valid(),
		"errors":       stringList(job.ValidationErrors),
		"needs_review": job.NeedsReview,
		"created_at":   job.CreatedAt.UTC().Format(time.RFC3339),
		"fraud_risk":   strOrEmpty(job.FraudRisk),
		"raw_text":     strOrEmpty(job.RawText),
	}
	if job.Confidence != nil {
		m["confidence"] = *job.Confidence
	}
	if job.ProcessingMs != nil {
		m["processing_ms"] = *job.ProcessingMs
	}
	if job.MatchPercentage != nil {
		m["match_percentage"] = *job.MatchPercentage
	}
	if job.ErrorMessage != nil {
		m["error_message"] = *job.ErrorMessage
	}
	return structpb.NewStruct(m)
}

func toPBReport(r compare.Report) (*structpb.Struct, error) {
	cmp := map[string]any{}
	for k, v := range r.Comparison {
		cmp[k] = v
	}
	return structpb.NewStruct(map[string]any{
		"comparison":       cmp,
		"matches":          r.Matches,
		"total":            r.Total,
		"match_percentage": r.Percentage,
		"auto_approve":     r.AutoApprove,
	})
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
