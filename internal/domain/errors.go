package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnknownPipeline = "UNKNOWN_PIPELINE"
	ErrCodeUpstream        = "UPSTREAM_ERROR"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrEmptyBatch           = NewDomainError(ErrCodeValidation, "upload batch cannot be empty")
	ErrEmptyQuery           = NewDomainError(ErrCodeValidation, "query cannot be empty")
)

// NewUnknownPipelineError builds the routing error for an unrecognized
// pipeline id.
func NewUnknownPipelineError(pipeline string) *DomainError {
	return NewDomainError(ErrCodeUnknownPipeline, fmt.Sprintf("unknown pipeline: %q", pipeline))
}

// NewUpstreamError wraps a failure from one of the leaf clients
// (embedding, vector index, generative model, object store).
func NewUpstreamError(stage string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeUpstream, fmt.Sprintf("%s request failed", stage), err)
}
