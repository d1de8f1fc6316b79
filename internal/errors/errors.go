package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes for the failure taxonomy: transport failures against the
// catalog, malformed payloads, file-parse failures. None of them are fatal;
// callers surface the message and continue with an empty result.
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	CodeMalformedResponse  = "MALFORMED_RESPONSE"
	CodeParseFailed        = "PARSE_FAILED"
	CodeResourceTooLarge   = "RESOURCE_TOO_LARGE"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func CatalogUnavailable(operation string, cause error) *AppError {
	return &AppError{
		Code:    CodeCatalogUnavailable,
		Message: fmt.Sprintf("catalog %s failed", operation),
		Cause:   cause,
	}
}

func MalformedResponse(operation string) *AppError {
	return New(CodeMalformedResponse, fmt.Sprintf("catalog %s returned an unexpected payload", operation))
}

func ParseFailed(name string, cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailed,
		Message: fmt.Sprintf("could not parse %s", name),
		Cause:   cause,
	}
}

func ResourceTooLarge(name string, sizeMB float64, url string) *AppError {
	return New(CodeResourceTooLarge,
		fmt.Sprintf("resource %s is too large to load (%.2f MB); open it at %s", name, sizeMB, url))
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
