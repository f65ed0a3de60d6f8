package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified seqkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is. Any AppError with the same code matches.
var (
	ErrTooManyElements = &AppError{Code: ErrCodeTooManyElements}
	ErrCursorContract  = &AppError{Code: ErrCodeCursorContract}
	ErrBufferLimit     = &AppError{Code: ErrCodeBufferLimit}
	ErrSourceFailed    = &AppError{Code: ErrCodeSourceFailed}
	ErrCanceled        = &AppError{Code: ErrCodeCanceled}
	ErrInvalidConfig   = &AppError{Code: ErrCodeInvalidConfig}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Helpers ---

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// Wrap returns err unchanged if it already is an AppError, otherwise wraps it as internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// --- Common Error Constructors ---

// TooManyElements creates a new AppError for a single-element terminal that found more than one element.
func TooManyElements() *AppError {
	return &AppError{
		Code: ErrCodeTooManyElements, Message: "sequence contains more than one element",
	}
}

// CursorContract creates a new AppError for a cursor consumed without a preceding successful lookahead.
func CursorContract(op string) *AppError {
	return &AppError{
		Code: ErrCodeCursorContract, Message: fmt.Sprintf("%s called without a successful HasNext", op),
		Details: map[string]any{"operation": op},
	}
}

// BufferLimit creates a new AppError for a buffer that would exceed limit elements.
func BufferLimit(buffer string, limit int) *AppError {
	return &AppError{
		Code: ErrCodeBufferLimit, Message: fmt.Sprintf("%s buffer exceeded %d elements", buffer, limit),
		Details: map[string]any{"buffer": buffer, "limit": limit},
	}
}

// SourceFailed creates a new AppError for an external source that failed to produce elements.
func SourceFailed(source string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSourceFailed, Message: fmt.Sprintf("source %s failed", source),
		Retryable: true, Details: map[string]any{"source": source}, Cause: cause,
	}
}

// Canceled creates a new AppError for evaluation stopped by its context.
func Canceled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "sequence evaluation canceled",
		Cause: cause,
	}
}

// InvalidConfig creates a new AppError for an invalid configuration field.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for struct validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}
