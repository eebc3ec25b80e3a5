package server

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core"
	"github.com/joseph-ayodele/certscan/internal/core/compare"
	"github.com/joseph-ayodele/certscan/internal/core/ocr"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
	"github.com/joseph-ayodele/certscan/internal/export"
	"github.com/joseph-ayodele/certscan/internal/repository"
)

type ScanServer struct {
	processor *core.Processor
	jobsRepo  repository.ScanJobRepository
	comparer  *compare.Comparer
	exporter  *export.Service
	logger    *slog.Logger
}

var _ ScanServiceServer = (*ScanServer)(nil)

func NewScanServer(proc *core.Processor, jobsRepo repository.ScanJobRepository, comparer *compare.Comparer, exporter *export.Service, logger *slog.Logger) *ScanServer {
	if logger == nil {
		logger = slog.Default()
	}
	if comparer == nil {
		comparer = compare.New(compare.DefaultThreshold)
	}
	return &ScanServer{processor: proc, jobsRepo: jobsRepo, comparer: comparer, exporter: exporter, logger: logger}
}

// Extract runs one uploaded image through the pipeline.
// Request: {filename, media_type, content (base64)}.
func (s *ScanServer) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	filename := strings.TrimSpace(stringField(req, "filename"))
	mediaType := strings.TrimSpace(stringField(req, "media_type"))

	v := common.NewValidator()
	v.Field("filename", filename, common.Required, common.MaxLength(255))
	v.Field("media_type", mediaType, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Error("extract request invalid", "req_id", reqID, "error", err)
		return nil, err
	}

	content, err := base64.StdEncoding.DecodeString(stringField(req, "content"))
	if err != nil {
		return nil, common.InvalidArgumentError("content must be base64")
	}
	if len(content) == 0 {
		return nil, common.InvalidArgumentError("content is required")
	}

	s.logger.Info("extract request", "req_id", reqID, "filename", filename, "media_type", mediaType, "bytes", len(content))
	out, err := s.processor.Process(ctx, ocr.BytesUpload(filename, mediaType, content))
	if err != nil {
		s.logger.Error("extract failed", "req_id", reqID, "job_id", out.JobID, "error", err)
		return nil, common.GRPCError(err)
	}
	resp, err := toPBOutcome(out)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return resp, nil
}

// GetScan returns a stored scan job. Request: {job_id}.
func (s *ScanServer) GetScan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := parseJobID(req)
	if err != nil {
		return nil, err
	}
	job, err := s.jobsRepo.GetByID(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.logger.Error("get scan failed", "job_id", id, "error", err)
		}
		return nil, common.GRPCError(err)
	}
	resp, err := toPBScanJob(job)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return resp, nil
}

// Compare scores fields against a stored record. With job_id the stored
// job's fields are used and the match percentage is persisted; otherwise
// the request's fields are compared statelessly.
func (s *ScanServer) Compare(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	stored := storedFrom(req.GetFields()["stored"].GetStructValue())

	var report compare.Report
	if stringField(req, "job_id") != "" {
		id, err := parseJobID(req)
		if err != nil {
			return nil, err
		}
		report, err = s.processor.Review(ctx, id, stored)
		if err != nil {
			s.logger.Error("compare failed", "job_id", id, "error", err)
			return nil, common.GRPCError(err)
		}
	} else {
		fields := req.GetFields()["fields"].GetStructValue()
		if fields == nil {
			return nil, common.InvalidArgumentError("fields or job_id is required")
		}
		report = s.comparer.Compare(parse.FromMap(fieldsFrom(fields)), stored)
	}

	resp, err := toPBReport(report)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return resp, nil
}

// ExportScans returns the review workbook. Request: {from_date?, to_date?} as YYYY-MM-DD.
func (s *ScanServer) ExportScans(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.exporter == nil {
		return nil, common.InternalError("export is not configured")
	}
	from, err := parseDate(stringField(req, "from_date"), "from_date")
	if err != nil {
		return nil, err
	}
	to, err := parseDate(stringField(req, "to_date"), "to_date")
	if err != nil {
		return nil, err
	}

	xlsx, err := s.exporter.ExportScansXLSX(ctx, from, to)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "err", err)
		return nil, common.InternalError(err.Error())
	}
	return structpb.NewStruct(map[string]any{
		"xlsx": base64.StdEncoding.EncodeToString(xlsx),
	})
}

func parseJobID(req *structpb.Struct) (uuid.UUID, error) {
	raw := strings.TrimSpace(stringField(req, "job_id"))
	v := common.NewValidator()
	v.Field("job_id", raw, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(raw), nil
}

func parseDate(raw, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("%s must be YYYY-MM-DD", name)
	}
	return &t, nil
}

func storedFrom(s *structpb.Struct) compare.StoredRecord {
	m := fieldsFrom(s)
	return compare.StoredRecord{
		StudentName: m["student_name"],
		StudentRoll: m["student_roll"],
		UIN:         m["uin"],
		Marks:       m["marks"],
		DateIssued:  m["date_issued"],
	}
}
