package fraud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/certscan/constants"
	"github.com/joseph-ayodele/certscan/internal/common"
	"github.com/joseph-ayodele/certscan/internal/core/parse"
)

func TestAssess(t *testing.T) {
	var gotFields map[string]string
	var gotImage []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("extracted_data")), &gotFields))
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		gotImage, _ = io.ReadAll(f)
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"success":true,"fraud_analysis":{"risk_level":"HIGH","fraud_probability":0.82,"confidence_score":0.9}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	fields := parse.FromMap(map[string]string{"studentName": "Amit Joshi", "marks": "81.5"})
	ctx := common.WithRequestID(context.Background(), "req-1")

	a, err := c.Assess(ctx, "scan.png", []byte("PNGDATA"), fields)
	require.NoError(t, err)
	assert.Equal(t, constants.RiskHigh, a.RiskLevel)
	assert.InDelta(t, 0.82, a.FraudProbability, 1e-9)
	assert.Equal(t, map[string]string{"studentName": "Amit Joshi", "marks": "81.5"}, gotFields)
	assert.Equal(t, []byte("PNGDATA"), gotImage)
}

func TestAssessForwardsJobID(t *testing.T) {
	jobID := uuid.New()
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("X-Job-ID"))
		_, _ = w.Write([]byte(`{"success":true,"fraud_analysis":{"risk_level":"LOW"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Assess(common.WithJobID(context.Background(), jobID), "a.png", []byte("x"), parse.ExtractedFields{})
	require.NoError(t, err)
	_, err = c.Assess(context.Background(), "a.png", []byte("x"), parse.ExtractedFields{})
	require.NoError(t, err)
	assert.Equal(t, []string{jobID.String(), ""}, got)
}

func TestAssessFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{name: "non-2xx", status: http.StatusBadGateway, body: `{}`},
		{name: "rejected", status: http.StatusOK, body: `{"success":false,"error":"no file"}`, is: ErrServiceRejected},
		{name: "bad shape", status: http.StatusOK, body: `{"fraud_analysis":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second, nil).Assess(context.Background(), "a.png", []byte("x"), parse.ExtractedFields{})
			require.Error(t, err)
			if tc.is != nil {
				assert.True(t, errors.Is(err, tc.is))
			}
		})
	}
}

func TestAssessUnknownRiskIsMedium(t *testing.T) {
	a, err := decode([]byte(`{"success":true,"fraud_analysis":{"risk_level":"weird"}}`))
	require.NoError(t, err)
	assert.Equal(t, constants.RiskMedium, a.RiskLevel)
}

func TestPayloadSchemaRejectsBadMarks(t *testing.T) {
	err := validateJSON(payloadValidator, []byte(`{"marks":"eighty"}`))
	assert.Error(t, err)
	assert.NoError(t, validateJSON(payloadValidator, parse.FromMap(map[string]string{"marks": "80.5"}).JSON()))
}
