package domain

import "fmt"

// Validation error codes returned to the calling API layer.
const (
	CodeEmptyBatch    = "empty_batch"
	CodeBatchTooLarge = "batch_too_large"
	CodeTextTooLong   = "text_too_long"
	CodeInvalidPost   = "invalid_post"
	CodeDuplicateID   = "duplicate_id"
)

// ValidationError rejects a batch before any processing happens. It is the
// only failure mode that escapes the pipeline; everything else resolves to
// fallback behavior internally.
type ValidationError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError builds a ValidationError with optional detail pairs.
func NewValidationError(code, message string, details map[string]string) *ValidationError {
	return &ValidationError{Code: code, Message: message, Details: details}
}
