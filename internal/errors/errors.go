package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - unreadable config file, keychain failures
	ErrorTypeConfig ErrorType = iota
	// Validation errors - malformed user input, reported before any network call
	ErrorTypeValidation
	// Resolution errors - repository not found or access denied
	ErrorTypeResolution
	// DataSource errors - a hosting platform call failed mid-analysis
	ErrorTypeDataSource
	// Precondition errors - API used out of order (programmer error)
	ErrorTypePrecondition
	// Internal errors - unexpected internal state
	ErrorTypeInternal
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded functionality
	SeverityLow Severity = iota
	// SeverityMedium - should be addressed but not fatal
	SeverityMedium
	// SeverityHigh - significant issue, aborts the current scan
	SeverityHigh
	// SeverityCritical - must be addressed, stops execution
	SeverityCritical
)

// Error represents a structured error with context
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is checks if this error matches the target error type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsFatal returns true if this error should stop execution
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString returns a detailed error message with context
func (e *Error) DetailedString() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] [%s] %s\n",
		severityString(e.Severity),
		typeString(e.Type),
		e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("Context:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, e.Context[k]))
		}
	}

	if e.StackTrace != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s\n", e.StackTrace))
	}

	return sb.String()
}

func typeString(t ErrorType) string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeResolution:
		return "RESOLUTION"
	case ErrorTypeDataSource:
		return "DATASOURCE"
	case ErrorTypePrecondition:
		return "PRECONDITION"
	case ErrorTypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

func severityString(s Severity) string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// captureStackTrace captures the current stack trace
func captureStackTrace(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(3),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}

	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		Context:    make(map[string]interface{}),
		StackTrace: captureStackTrace(3),
	}
}

// Convenience constructors for common error types

// ConfigError wraps a configuration error
func ConfigError(err error, message string) *Error {
	if err == nil {
		return New(ErrorTypeConfig, SeverityCritical, message)
	}
	return Wrap(err, ErrorTypeConfig, SeverityCritical, message)
}

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, SeverityHigh, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// ResolutionError wraps a failure to locate or access a repository
func ResolutionError(err error, message string) *Error {
	return Wrap(err, ErrorTypeResolution, SeverityHigh, message)
}

// ResolutionErrorf wraps a resolution failure with formatting
func ResolutionErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeResolution, SeverityHigh, fmt.Sprintf(format, args...))
}

// DataSourceError wraps a failed hosting platform call
func DataSourceError(err error, message string) *Error {
	return Wrap(err, ErrorTypeDataSource, SeverityHigh, message)
}

// DataSourceErrorf wraps a failed hosting platform call with formatting
func DataSourceErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeDataSource, SeverityHigh, fmt.Sprintf(format, args...))
}

// PreconditionError creates an error for an API used out of order
func PreconditionError(message string) *Error {
	return New(ErrorTypePrecondition, SeverityCritical, message)
}

// InternalErrorf creates an internal error with formatting
func InternalErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeInternal, SeverityCritical, fmt.Sprintf(format, args...))
}

// Sentinels for errors.Is matching by type
var (
	ErrValidation   = &Error{Type: ErrorTypeValidation}
	ErrResolution   = &Error{Type: ErrorTypeResolution}
	ErrDataSource   = &Error{Type: ErrorTypeDataSource}
	ErrPrecondition = &Error{Type: ErrorTypePrecondition}
	ErrConfig       = &Error{Type: ErrorTypeConfig}
)

// IsFatal checks if an error is fatal (should stop execution)
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.IsFatal()
	}

	return false
}

// GetSeverity returns the severity of an error
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityLow
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.Severity
	}

	return SeverityMedium
}

// GetType returns the type of an error
func GetType(err error) ErrorType {
	if err == nil {
		return ErrorTypeInternal
	}

	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}

	return ErrorTypeInternal
}
