package errors

import (
	"errors"
	"fmt"

	"github.com/mcncl/eventdiff/internal/models"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON      = errors.New("invalid JSON format")
	ErrMultipleJSON     = errors.New("multiple JSON values found on one line, only one is allowed")
	ErrNotObject        = errors.New("record is not a JSON object")
	ErrMissingTimestamp = errors.New("timestamp field is missing")
	ErrInvalidTimestamp = errors.New("timestamp is not an RFC 3339 string")
	ErrUnsortedInput    = errors.New("records are not sorted by timestamp")
	ErrFileNotFound     = errors.New("file not found")
	ErrInvalidFilePath  = errors.New("invalid file path")
	ErrUnexpectedLeaf   = errors.New("extra-key tree holds a value at its root")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeTimestamp ErrorType = "timestamp"
	ErrorTypeOrder     ErrorType = "order"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeInternal  ErrorType = "internal"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	// Side is the source the error came from, empty when none applies.
	Side models.Side
	// Line is the 1-based line number within Side, zero when unknown.
	Line int
	Err  error
}

// Error implements error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Side != "" {
		if e.Line > 0 {
			msg = fmt.Sprintf("%s (%s line %d)", msg, e.Side, e.Line)
		} else {
			msg = fmt.Sprintf("%s (%s)", msg, e.Side)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	// Check if target is also an *AppError and if the types match
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// At attaches the source side and line number to the error.
func (e *AppError) At(side models.Side, line int) *AppError {
	e.Side = side
	e.Line = line
	return e
}

// NewInputError creates a new error related to opening or reading a source
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewTimestampError creates a new error for a missing or malformed timestamp
func NewTimestampError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTimestamp,
		Message: message,
		Err:     err,
	}
}

// NewOrderError creates a new error for a stream that goes back in time
func NewOrderError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOrder,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new error for a state that should be unreachable
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		where := ""
		if appErr.Side != "" {
			where = fmt.Sprintf(" in %s source", appErr.Side)
			if appErr.Line > 0 {
				where = fmt.Sprintf(" in %s source, line %d", appErr.Side, appErr.Line)
			}
		}
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error%s: %s", where, appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error%s: %s", where, appErr.Message)
		case ErrorTypeTimestamp:
			return fmt.Sprintf("Timestamp error%s: %s", where, appErr.Message)
		case ErrorTypeOrder:
			return fmt.Sprintf("Ordering error%s: %s", where, appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeInternal:
			return fmt.Sprintf("Internal error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide newline-delimited JSON records."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMissingTimestamp) {
		return "Error: A record has no timestamp field."
	}
	if errors.Is(err, ErrInvalidTimestamp) {
		return "Error: A record timestamp is not a valid RFC 3339 string."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
