package errors

import (
	stderrors "errors"
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

// Wrap wraps an error with additional context, keeping the code of an
// underlying AppError
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps err under the given code
func WithCode(code string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain,
// otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsFatal reports whether err must terminate the run
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodeBatchInsertError, CodeRowInsertError:
		return false
	}
	return err != nil
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeFileError        = "FILE_ERROR"
	CodeFormatError      = "FORMAT_ERROR"
	CodeConnectionError  = "CONNECTION_ERROR"
	CodeDeleteError      = "DELETE_ERROR"
	CodeBatchInsertError = "BATCH_INSERT_ERROR"
	CodeRowInsertError   = "ROW_INSERT_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func FileError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeFileError,
		Message: fmt.Sprintf("cannot read listing file %s", path),
		Cause:   cause,
	}
}

func FormatError(message string) *AppError {
	return New(CodeFormatError, message)
}

func ConnectionError(backend string, cause error) *AppError {
	return &AppError{
		Code:    CodeConnectionError,
		Message: fmt.Sprintf("failed to connect to %s backend", backend),
		Cause:   cause,
	}
}

func DeleteError(source string, cause error) *AppError {
	return &AppError{
		Code:    CodeDeleteError,
		Message: fmt.Sprintf("failed to delete rows for source %q", source),
		Cause:   cause,
	}
}

func BatchInsertError(start, size int, cause error) *AppError {
	return &AppError{
		Code:    CodeBatchInsertError,
		Message: fmt.Sprintf("batch insert failed (start index %d, %d rows)", start, size),
		Cause:   cause,
	}
}

func RowInsertError(index int, cause error) *AppError {
	return &AppError{
		Code:    CodeRowInsertError,
		Message: fmt.Sprintf("row %d insert failed", index),
		Cause:   cause,
	}
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
