package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Kind classifies game errors for the chat layer and metrics.
type Kind string

const (
	// KindValidation is malformed or out-of-range input; nothing was mutated.
	KindValidation Kind = "validation"
	// KindPrecondition is a failed business precondition (cooldown active,
	// insufficient funds or ownership, wrong duel addressee, raid not alive).
	KindPrecondition Kind = "precondition"
	// KindNotFound is an unknown card, duel, item or user reference.
	KindNotFound Kind = "not_found"
	// KindStorage is a persistence failure after internal retries.
	KindStorage Kind = "storage"
)

type AppError struct {
	Kind        Kind
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

func NewValidation(msg, userMsg string) *AppError {
	return &AppError{
		Kind:        KindValidation,
		Code:        "E100",
		Message:     msg,
		UserMessage: userMsg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewPrecondition(msg, userMsg string) *AppError {
	return &AppError{
		Kind:        KindPrecondition,
		Code:        "E110",
		Message:     msg,
		UserMessage: userMsg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewNotFound(msg, userMsg string) *AppError {
	return &AppError{
		Kind:        KindNotFound,
		Code:        "E120",
		Message:     msg,
		UserMessage: userMsg,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewStorage(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Kind:        KindStorage,
		Code:        "E200",
		Message:     fmt.Sprintf("storage error: %s", underlyingMsg),
		UserMessage: "Тимчасова проблема, спробуй пізніше",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewCooldown reports an active cooldown with the remaining wait.
func NewCooldown(action string, remaining int64) *AppError {
	return &AppError{
		Kind:        KindPrecondition,
		Code:        "E111",
		Message:     fmt.Sprintf("cooldown active for %s: %d seconds left", action, remaining),
		UserMessage: fmt.Sprintf("⏳ Зачекай %d сек.", remaining),
		Severity:    SeverityLow,
		Retryable:   false,
	}
}
