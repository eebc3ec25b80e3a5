// Package fraud calls the external fraud-scoring service with a scanned image
// and its extracted fields, and reads back a risk label.
package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/certscan/constants"
	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

// ErrServiceRejected is returned when the service answers success=false.
var ErrServiceRejected = errors.New("fraud service rejected request")

// Assessment is the service's verdict on one document.
type Assessment struct {
	RiskLevel        constants.RiskLevel `json:"risk_level"`
	FraudProbability float64             `json:"fraud_probability"`
	ConfidenceScore  float64             `json:"confidence_score"`
}

type response struct {
	Success       bool   `json:"success"`
	Error         string `json:"error"`
	FraudAnalysis struct {
		RiskLevel        string  `json:"risk_level"`
		FraudProbability float64 `json:"fraud_probability"`
		ConfidenceScore  float64 `json:"confidence_score"`
	} `json:"fraud_analysis"`
}

// Client posts multipart requests to the fraud-scoring endpoint.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}, logger: logger}
}

// Assess uploads the image as "file" and the present fields as the JSON form
// field "extracted_data".
func (c *Client) Assess(ctx context.Context, filename string, image []byte, fields parse.ExtractedFields) (Assessment, error) {
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	log := c.logger.With("req_id", reqID)
	jobID, hasJob := common.JobIDFromContext(ctx)
	if hasJob {
		log = log.With("job_id", jobID)
	}
	start := time.Now()

	payload := fields.JSON()
	if err := validateJSON(payloadValidator, payload); err != nil {
		return Assessment{}, common.NewAppError("FRAUD_PAYLOAD", "extracted data failed schema", errors.Join(common.ErrValidation, err))
	}

	body, contentType, err := buildMultipart(filename, image, payload)
	if err != nil {
		return Assessment{}, fmt.Errorf("build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return Assessment{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", reqID)
	if hasJob {
		req.Header.Set("X-Job-ID", jobID.String())
	}

	log.Info("fraud.http.request", "url", c.url, "file", filename, "image_bytes", len(image))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("fraud.http.send_error", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Assessment{}, err
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn("fraud.http.response_body_close_error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	log.Info("fraud.http.response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return Assessment{}, fmt.Errorf("fraud service: non-2xx status: %d", resp.StatusCode)
	}
	return decode(raw)
}

func decode(raw []byte) (Assessment, error) {
	if err := validateJSON(responseValidator, raw); err != nil {
		return Assessment{}, fmt.Errorf("fraud service: %w", err)
	}
	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return Assessment{}, fmt.Errorf("decode response: %w", err)
	}
	if !r.Success {
		return Assessment{}, fmt.Errorf("%w: %s", ErrServiceRejected, r.Error)
	}
	return Assessment{
		RiskLevel:        constants.CanonicalRisk(r.FraudAnalysis.RiskLevel),
		FraudProbability: r.FraudAnalysis.FraudProbability,
		ConfidenceScore:  r.FraudAnalysis.ConfidenceScore,
	}, nil
}

func buildMultipart(filename string, image, payload []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("extracted_data", string(payload)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
