package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeExpired      ErrorCode = "EXPIRED"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInternal     ErrorCode = "INTERNAL"
)

// AppError is the error every externally-facing operation resolves to before
// it reaches a controller. The cause is logged server-side, never echoed.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Validation(msg string) *AppError   { return NewAppError(CodeValidation, msg) }
func NotFound(msg string) *AppError     { return NewAppError(CodeNotFound, msg) }
func Forbidden(msg string) *AppError    { return NewAppError(CodeForbidden, msg) }
func Conflict(msg string) *AppError     { return NewAppError(CodeConflict, msg) }
func Expired(msg string) *AppError      { return NewAppError(CodeExpired, msg) }
func Unauthorized(msg string) *AppError { return NewAppError(CodeUnauthorized, msg) }

func Internal(cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: "An unexpected error occurred", Cause: cause}
}

// HTTPStatus maps the taxonomy onto response codes. Conflict and Expired map
// to 400 to keep the API's observed behavior.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeConflict, CodeExpired:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError extracts an *AppError from err, wrapping anything unknown as an
// internal error so no raw store failure leaks to a client.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
