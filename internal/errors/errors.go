package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeEmptyInput         = "E100"
	CodeMalformedSelection = "E110"
	CodeStorage            = "E200"
	CodeLookupFailure      = "E300"
	CodeState              = "E400"
	CodePanic              = "E900"
)

// Message catalog keys of the replies users see.
const (
	MsgGeneric          = "errors.generic"
	MsgEmptyInput       = "prompt.start"
	MsgSelectionExpired = "errors.selection_expired"
	MsgMenuInactive     = "errors.menu_inactive"
)

type AppError struct {
	Code    string
	Message string
	// MessageKey is the catalog key of the reply shown to the user.
	MessageKey string
	Severity   Severity
	Retryable  bool
	cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
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

// NewValidationError reports user input that cannot start a lookup, such as an empty query.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        CodeEmptyInput,
		Message:     msg,
		MessageKey:  MsgEmptyInput,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewMalformedSelectionError reports a button payload that cannot be decoded or resolved.
func NewMalformedSelectionError(payload string, cause error) *AppError {
	return &AppError{
		Code:        CodeMalformedSelection,
		Message:     fmt.Sprintf("malformed selection %q", payload),
		MessageKey:  MsgSelectionExpired,
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       cause,
	}
}

// NewStorageError wraps a failure of the session or link store.
func NewStorageError(cause error) *AppError {
	return &AppError{
		Code:        CodeStorage,
		Message:     "storage error",
		MessageKey:  MsgGeneric,
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewExternalAPIError is the LookupFailure raised when the podcast provider fails.
// The user only gets the generic failure reply.
func NewExternalAPIError(apiName string, cause error) *AppError {
	return &AppError{
		Code:        CodeLookupFailure,
		Message:     fmt.Sprintf("external API error: %s", apiName),
		MessageKey:  MsgGeneric,
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewStateError reports a press that does not fit the conversation, such as a superseded menu.
func NewStateError(msg string) *AppError {
	return &AppError{
		Code:        CodeState,
		Message:     msg,
		MessageKey:  MsgMenuInactive,
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

func NewPanicError(recovered any) *AppError {
	return &AppError{
		Code:        CodePanic,
		Message:     fmt.Sprintf("panic recovered: %v", recovered),
		MessageKey:  MsgGeneric,
		Severity:    SeverityCritical,
		Retryable:   false,
	}
}
