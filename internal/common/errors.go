package common

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrValidation   = errors.New("validation failed")
)

// Text acquisition failures. Neither is retried by the pipeline.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrExtractionFailure   = errors.New("failed to extract text, ensure the file is a valid image")
)

// Error codes carried by AppError.
const (
	CodeUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	CodeExtractionFailure   = "EXTRACTION_FAILURE"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// UnsupportedFileType builds the error returned for a non-image media type.
func UnsupportedFileType(mediaType string) *AppError {
	return NewAppError(CodeUnsupportedFileType, fmt.Sprintf("media type %q is not an accepted image type", mediaType), ErrUnsupportedFileType)
}

// ExtractionFailure wraps an engine or read failure.
func ExtractionFailure(cause error) *AppError {
	return NewAppError(CodeExtractionFailure, ErrExtractionFailure.Error(), errors.Join(ErrExtractionFailure, cause))
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// GRPCError maps application errors onto gRPC status errors.
func GRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrUnsupportedFileType):
		return InvalidArgumentError(ErrUnsupportedFileType.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return InvalidArgumentError(err.Error())
	case errors.Is(err, ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, ErrExtractionFailure):
		return InternalError(ErrExtractionFailure.Error())
	default:
		return InternalError("internal error")
	}
}
