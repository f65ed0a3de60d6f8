package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Sequence evaluation errors
const (
	// ErrCodeTooManyElements indicates a single-element terminal saw more than one element.
	ErrCodeTooManyElements ErrorCode = "TOO_MANY_ELEMENTS"
	// ErrCodeCursorContract indicates Next was called without a truthful HasNext.
	ErrCodeCursorContract ErrorCode = "CURSOR_CONTRACT"
	// ErrCodeBufferLimit indicates a memo or splitter buffer grew past its configured limit.
	ErrCodeBufferLimit ErrorCode = "BUFFER_LIMIT"
)

// Source errors
const (
	// ErrCodeSourceFailed indicates an external source (database, reader) failed while producing elements. Retryable.
	ErrCodeSourceFailed ErrorCode = "SOURCE_FAILED"
	// ErrCodeCanceled indicates evaluation stopped because its context ended.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates a configuration value is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeSourceFailed: true,
	ErrCodeInternal:     false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
