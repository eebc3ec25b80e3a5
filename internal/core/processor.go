package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/certscan/constants"
	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core/compare"
	"github.com/joseph-ayodele/certscan/internal/core/ocr"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
	"github.com/joseph-ayodele/certscan/internal/core/pipeline"
	"github.com/joseph-ayodele/certscan/internal/fraud"
	"github.com/joseph-ayodele/certscan/internal/repository"
)

// FraudAssessor scores a scanned image and its fields.
type FraudAssessor interface {
	Assess(ctx context.Context, filename string, image []byte, fields parse.ExtractedFields) (fraud.Assessment, error)
}

// Outcome is what one processed upload produced.
type Outcome struct {
	JobID       uuid.UUID
	Result      pipeline.Result
	FraudRisk   *constants.RiskLevel
	NeedsReview bool
}

// Processor coordinates the scan job lifecycle: persist, scan, score, decide review.
type Processor struct {
	logger        *slog.Logger
	scanner       *pipeline.Scanner
	jobsRepo      repository.ScanJobRepository
	assessor      FraudAssessor
	comparer      *compare.Comparer
	minConfidence int
	maxBytes      int64
}

func NewProcessor(
	logger *slog.Logger,
	scanner *pipeline.Scanner,
	jobsRepo repository.ScanJobRepository,
	assessor FraudAssessor,
	comparer *compare.Comparer,
	minConfidence int,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if comparer == nil {
		comparer = compare.New(compare.DefaultThreshold)
	}
	return &Processor{
		logger:        logger,
		scanner:       scanner,
		jobsRepo:      jobsRepo,
		assessor:      assessor,
		comparer:      comparer,
		minConfidence: minConfidence,
		maxBytes:      25 << 20,
	}
}

// ProcessFile runs Process on a file from disk.
func (p *Processor) ProcessFile(ctx context.Context, path string) (Outcome, error) {
	return p.Process(ctx, ocr.FileUpload(path))
}

// Process starts a scan job, runs the scanner and persists every stage.
// Unsupported media types and unreadable uploads are rejected before a job
// exists; later failures leave the job FAILED and are returned.
func (p *Processor) Process(ctx context.Context, up ocr.Upload) (Outcome, error) {
	mt := constants.NormalizeMediaType(up.MediaType)
	if !constants.IsAcceptedMediaType(mt) {
		return Outcome{}, common.UnsupportedFileType(up.MediaType)
	}
	data, err := p.readUpload(up)
	if err != nil {
		return Outcome{}, common.ExtractionFailure(err)
	}

	hashHex := ocr.ContentHash(data)
	ctx = ocr.WithContentHash(ctx, hashHex)

	// Start job in RUNNING
	job, err := p.jobsRepo.Start(ctx, up.Name, mt, hashHex)
	if err != nil {
		return Outcome{}, err
	}
	ctx = common.WithJobID(ctx, job.ID)
	out := Outcome{JobID: job.ID}

	res, err := p.scanner.Scan(ctx, ocr.BytesUpload(up.Name, mt, data))
	if err != nil {
		p.logger.Error("processor.scan.failed", "job_id", job.ID, "file", up.Name, "err", err)
		if ferr := p.jobsRepo.Fail(ctx, job.ID, err.Error()); ferr != nil {
			err = errors.Join(err, ferr)
		}
		return out, err
	}
	out.Result = res

	if err := p.jobsRepo.FinishOCR(ctx, job.ID, repository.OCROutcome{
		RawText:      res.Recognized.RawText,
		Confidence:   res.Recognized.Confidence,
		ProcessingMs: res.Recognized.ProcessingTimeMs(),
	}); err != nil {
		return out, err
	}

	needsReview := !res.Validation.IsValid
	if res.Recognized.Confidence < p.minConfidence {
		p.logger.Warn("ocr confidence low; needs review", "job_id", job.ID, "conf", res.Recognized.Confidence, "min", p.minConfidence)
		needsReview = true
	}

	if err := p.jobsRepo.FinishParse(ctx, job.ID, repository.ParseOutcome{
		ExtractedJSON:    res.Fields.JSON(),
		ValidationErrors: res.Validation.Errors,
		NeedsReview:      needsReview,
	}); err != nil {
		return out, err
	}

	if risk, ok := p.assess(ctx, job.ID, up.Name, data, res.Fields); ok {
		out.FraudRisk = &risk
		if risk.NeedsReview() {
			needsReview = true
		}
		if err := p.jobsRepo.SetReview(ctx, job.ID, repository.ReviewOutcome{FraudRisk: &risk, NeedsReview: needsReview}); err != nil {
			return out, err
		}
	}
	out.NeedsReview = needsReview

	p.logger.Info("processed scan",
		"job_id", job.ID,
		"file", up.Name,
		"fields", res.Fields.Present(),
		"valid", res.Validation.IsValid,
		"confidence", res.Recognized.Confidence,
		"needs_review", needsReview,
	)
	return out, nil
}

// assess calls the fraud service when one is configured. A failed call is
// logged and leaves the job without a risk label.
func (p *Processor) assess(ctx context.Context, jobID uuid.UUID, name string, data []byte, fields parse.ExtractedFields) (constants.RiskLevel, bool) {
	if p.assessor == nil {
		return "", false
	}
	a, err := p.assessor.Assess(ctx, name, data, fields)
	if err != nil {
		p.logger.Warn("fraud assessment failed", "job_id", jobID, "err", err)
		return "", false
	}
	p.logger.Debug("fraud assessment", "job_id", jobID, "risk", a.RiskLevel, "probability", a.FraudProbability)
	return a.RiskLevel, true
}

// Review compares a finished job's fields with a stored record and persists
// the match percentage. A job below the approval threshold is flagged.
func (p *Processor) Review(ctx context.Context, jobID uuid.UUID, stored compare.StoredRecord) (compare.Report, error) {
	job, err := p.jobsRepo.GetByID(ctx, jobID)
	if err != nil {
		return compare.Report{}, err
	}
	if job.Status != string(constants.JobStatusParsed) {
		return compare.Report{}, common.NewAppError("JOB_NOT_PARSED", fmt.Sprintf("scan job %s is %s", jobID, job.Status), common.ErrInvalidInput)
	}
	var fields parse.ExtractedFields
	if err := json.Unmarshal(job.ExtractedJSON, &fields); err != nil {
		return compare.Report{}, fmt.Errorf("decode extracted fields: %w", err)
	}

	report := p.comparer.Compare(fields, stored)
	pct := report.Percentage
	needsReview := job.NeedsReview || !report.AutoApprove
	if err := p.jobsRepo.SetReview(ctx, jobID, repository.ReviewOutcome{MatchPercentage: &pct, NeedsReview: needsReview}); err != nil {
		return report, err
	}
	p.logger.Info("scan reviewed against record", "job_id", jobID, "match_percentage", pct, "auto_approve", report.AutoApprove)
	return report, nil
}

func (p *Processor) readUpload(up ocr.Upload) ([]byte, error) {
	if c, ok := up.Body.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	if up.Body == nil {
		return nil, errors.New("upload has no body")
	}
	data, err := io.ReadAll(io.LimitReader(up.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("upload exceeds %d bytes", p.maxBytes)
	}
	if len(data) == 0 {
		return nil, errors.New("empty upload")
	}
	return data, nil
}
