package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries an internal message for logs and a safe message for users.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewValidationError reports a rejected user input. It is always recovered
// locally by re-prompting, never surfaced as a fault.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: msg,
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

// NewStoreError reports a failed attempt to persist an order record. The
// session stays at the confirm stage, so the write can be retried.
func NewStoreError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("order store error: %s", underlyingMsg),
		UserMessage: "Sorry, I couldn't save your order just now. Please try again.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewOracleError reports a failed product existence lookup.
func NewOracleError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     "product catalog lookup failed",
		UserMessage: "I couldn't check that product right now. Please try again.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewFallbackError reports a failed or timed-out call to the general
// question-answering responder.
func NewFallbackError(cause error) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     "fallback responder error",
		UserMessage: "Sorry, I'm having trouble answering right now. Please try again in a moment.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewSessionError reports a session storage or locking failure.
func NewSessionError(msg string, cause error) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     msg,
		UserMessage: "Something went wrong on our side. Please try again.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}
