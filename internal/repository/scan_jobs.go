package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/certscan/constants"
	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/entity"
)

// OCROutcome is what the text acquisition stage persists.
type OCROutcome struct {
	RawText      string
	Confidence   int
	ProcessingMs int64
}

// ParseOutcome is what the field extraction stage persists.
type ParseOutcome struct {
	ExtractedJSON    json.RawMessage
	ValidationErrors []string
	NeedsReview      bool
}

// ReviewOutcome carries the post-parse signals that can flip needs_review.
type ReviewOutcome struct {
	FraudRisk       *constants.RiskLevel
	MatchPercentage *float64
	NeedsReview     bool
}

// ListFilter bounds a listing by creation time. Zero times are open bounds.
type ListFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

type ScanJobRepository interface {
	Start(ctx context.Context, filename, mediaType, contentHash string) (*entity.ScanJob, error)
	FinishOCR(ctx context.Context, jobID uuid.UUID, out OCROutcome) error
	FinishParse(ctx context.Context, jobID uuid.UUID, out ParseOutcome) error
	SetReview(ctx context.Context, jobID uuid.UUID, out ReviewOutcome) error
	Fail(ctx context.Context, jobID uuid.UUID, message string) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ScanJob, error)
	List(ctx context.Context, f ListFilter) ([]*entity.ScanJob, error)
}

type scanJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewScanJobRepository(db *DB, log *slog.Logger) ScanJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &scanJobRepo{db: db, log: log}
}

func (r *scanJobRepo) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.Dialect())
}

func (r *scanJobRepo) Start(ctx context.Context, filename, mediaType, contentHash string) (*entity.ScanJob, error) {
	job := &entity.ScanJob{
		ID:          uuid.New(),
		Filename:    filename,
		MediaType:   mediaType,
		ContentHash: contentHash,
		Status:      string(constants.JobStatusRunning),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	query, args := r.builder().Insert(scanJobsTable).
		Columns(colID, colFilename, colMediaType, colContentHash, colStatus, colNeedsReview, colCreatedAt).
		Values(job.ID.String(), job.Filename, job.MediaType, job.ContentHash, job.Status, false, job.CreatedAt.UnixMilli()).
		Query()
	if err := r.db.Driver.Exec(ctx, query, args, nil); err != nil {
		r.log.Error("scan_job start failed", "filename", filename, "err", err)
		return nil, fmt.Errorf("%w: insert scan job: %w", common.ErrDatabase, err)
	}
	r.log.Info("scan_job started", "job_id", job.ID, "filename", filename, "media_type", mediaType)
	return job, nil
}

func (r *scanJobRepo) FinishOCR(ctx context.Context, jobID uuid.UUID, out OCROutcome) error {
	u := r.builder().Update(scanJobsTable).
		Set(colRawText, out.RawText).
		Set(colConfidence, out.Confidence).
		Set(colProcessingMs, out.ProcessingMs).
		Set(colStatus, string(constants.JobStatusOCROK))
	if err := r.update(ctx, jobID, u); err != nil {
		r.log.Error("scan_job finish(OCR_OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("scan_job finished (OCR_OK)", "job_id", jobID, "confidence", out.Confidence)
	return nil
}

func (r *scanJobRepo) FinishParse(ctx context.Context, jobID uuid.UUID, out ParseOutcome) error {
	errs, err := json.Marshal(nonNil(out.ValidationErrors))
	if err != nil {
		return fmt.Errorf("marshal validation errors: %w", err)
	}
	u := r.builder().Update(scanJobsTable).
		Set(colExtractedJSON, string(out.ExtractedJSON)).
		Set(colValidationErrors, string(errs)).
		Set(colNeedsReview, out.NeedsReview).
		Set(colStatus, string(constants.JobStatusParsed)).
		Set(colFinishedAt, time.Now().UTC().UnixMilli())
	if err := r.update(ctx, jobID, u); err != nil {
		r.log.Error("scan_job finish(PARSED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("scan_job finished (PARSED)", "job_id", jobID, "needs_review", out.NeedsReview, "errors", len(out.ValidationErrors))
	return nil
}

func (r *scanJobRepo) SetReview(ctx context.Context, jobID uuid.UUID, out ReviewOutcome) error {
	u := r.builder().Update(scanJobsTable).Set(colNeedsReview, out.NeedsReview)
	if out.FraudRisk != nil {
		u.Set(colFraudRisk, string(*out.FraudRisk))
	}
	if out.MatchPercentage != nil {
		u.Set(colMatchPercentage, *out.MatchPercentage)
	}
	if err := r.update(ctx, jobID, u); err != nil {
		r.log.Error("scan_job review update failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("scan_job review updated", "job_id", jobID, "needs_review", out.NeedsReview)
	return nil
}

func (r *scanJobRepo) Fail(ctx context.Context, jobID uuid.UUID, message string) error {
	u := r.builder().Update(scanJobsTable).
		Set(colStatus, string(constants.JobStatusFailed)).
		Set(colErrorMessage, message).
		Set(colNeedsReview, true).
		Set(colFinishedAt, time.Now().UTC().UnixMilli())
	if err := r.update(ctx, jobID, u); err != nil {
		r.log.Error("scan_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("scan_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}

func (r *scanJobRepo) update(ctx context.Context, jobID uuid.UUID, u *entsql.UpdateBuilder) error {
	query, args := u.Where(entsql.EQ(colID, jobID.String())).Query()
	var res sql.Result
	if err := r.db.Driver.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("%w: update scan job: %w", common.ErrDatabase, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("scan job %s: %w", jobID, common.ErrNotFound)
	}
	return nil
}

func (r *scanJobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*entity.ScanJob, error) {
	b := r.builder()
	query, args := b.Select(scanJobColumns...).
		From(b.Table(scanJobsTable)).
		Where(entsql.EQ(colID, jobID.String())).
		Query()
	jobs, err := r.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("scan job %s: %w", jobID, common.ErrNotFound)
	}
	return jobs[0], nil
}

func (r *scanJobRepo) List(ctx context.Context, f ListFilter) ([]*entity.ScanJob, error) {
	b := r.builder()
	sel := b.Select(scanJobColumns...).From(b.Table(scanJobsTable))
	var preds []*entsql.Predicate
	if !f.From.IsZero() {
		preds = append(preds, entsql.GTE(colCreatedAt, f.From.UnixMilli()))
	}
	if !f.To.IsZero() {
		preds = append(preds, entsql.LT(colCreatedAt, f.To.UnixMilli()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(colCreatedAt, colID)
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}
	query, args := sel.Query()
	return r.query(ctx, query, args)
}

func (r *scanJobRepo) query(ctx context.Context, query string, args []any) ([]*entity.ScanJob, error) {
	rows := &entsql.Rows{}
	if err := r.db.Driver.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("%w: query scan jobs: %w", common.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.ScanJob
	for rows.Next() {
		job, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate scan jobs: %w", common.ErrDatabase, err)
	}
	return out, nil
}

func scanRow(rows *entsql.Rows) (*entity.ScanJob, error) {
	var (
		id, filename, mediaType, hash, status string
		rawText, extracted, valErrs, risk     sql.NullString
		errMsg                                sql.NullString
		confidence, procMs, finishedAt        sql.NullInt64
		matchPct                              sql.NullFloat64
		needsReview                           bool
		createdAt                             int64
	)
	if err := rows.Scan(
		&id, &filename, &mediaType, &hash, &status,
		&rawText, &confidence, &procMs, &extracted, &valErrs,
		&risk, &matchPct, &needsReview, &errMsg,
		&createdAt, &finishedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: scan row: %w", common.ErrDatabase, err)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad scan job id %q: %w", common.ErrDatabase, id, err)
	}
	job := &entity.ScanJob{
		ID:          parsedID,
		Filename:    filename,
		MediaType:   mediaType,
		ContentHash: hash,
		Status:      status,
		NeedsReview: needsReview,
		CreatedAt:   time.UnixMilli(createdAt).UTC(),
	}
	if rawText.Valid {
		job.RawText = &rawText.String
	}
	if confidence.Valid {
		c := int(confidence.Int64)
		job.Confidence = &c
	}
	if procMs.Valid {
		job.ProcessingMs = &procMs.Int64
	}
	if extracted.Valid && extracted.String != "" {
		job.ExtractedJSON = json.RawMessage(extracted.String)
	}
	if valErrs.Valid && valErrs.String != "" {
		if err := json.Unmarshal([]byte(valErrs.String), &job.ValidationErrors); err != nil {
			return nil, fmt.Errorf("%w: decode validation errors: %w", common.ErrDatabase, err)
		}
	}
	if risk.Valid {
		job.FraudRisk = &risk.String
	}
	if matchPct.Valid {
		job.MatchPercentage = &matchPct.Float64
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64).UTC()
		job.FinishedAt = &t
	}
	return job, nil
}

// IsNotFound reports whether err came from a missing scan job.
func IsNotFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
