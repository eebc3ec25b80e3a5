package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"unsupported", UnsupportedFileType("application/pdf"), codes.InvalidArgument, ErrUnsupportedFileType.Error()},
		{"extraction", ExtractionFailure(errors.New("tesseract: exit 1")), codes.Internal, ErrExtractionFailure.Error()},
		{"not found", fmt.Errorf("scan job: %w", ErrNotFound), codes.NotFound, ""},
		{"invalid input", NewAppError("BAD", "job not parsed", ErrInvalidInput), codes.InvalidArgument, ""},
		{"validation", errors.Join(ErrValidation, errors.New("marks")), codes.InvalidArgument, ""},
		{"other", errors.New("boom"), codes.Internal, "internal error"},
		{"passthrough", status.Error(codes.Unavailable, "down"), codes.Unavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(GRPCError(tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, st.Message())
			}
		})
	}
	assert.NoError(t, GRPCError(nil))
}

func TestExtractionFailure_KeepsCause(t *testing.T) {
	cause := errors.New("decode png: unexpected EOF")
	err := ExtractionFailure(cause)

	assert.ErrorIs(t, err, ErrExtractionFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeExtractionFailure, err.Code)
}

func TestValidator(t *testing.T) {
	name := "  "
	v := NewValidator().
		Field("filename", "", Required).
		Field("student_name", &name, Required).
		Field("job_id", "not-a-uuid", UUID).
		Field("media_type", "image/png", Required, MaxLength(5))

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 4)
	assert.Equal(t, []string{
		"filename is required",
		"student_name is required",
		"job_id must be a valid UUID",
		"media_type must be at most 5 characters",
	}, v.Messages())

	st, ok := status.FromError(ValidateAndReturnError(v))
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())

	assert.NoError(t, ValidateAndReturnError(NewValidator().Field("job_id", uuid.NewString(), UUID)))
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, RequestIDFromContext(ctx))

	same, again := EnsureRequestID(ctx)
	assert.Equal(t, id, again)
	assert.Equal(t, ctx, same)

	jobID := uuid.New()
	got, ok := JobIDFromContext(WithJobID(ctx, jobID))
	require.True(t, ok)
	assert.Equal(t, jobID, got)
}
