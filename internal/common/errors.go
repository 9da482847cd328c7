package common

import (
	"errors"
	"net/http"
)

// Error codes shared across handlers.
const (
	CodeValidation = "VALIDATION_FAILED"
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL"
)

// Messages rendered for the canonical error classes.
const (
	MsgValidationFailed = "Validation failed"
	MsgMalformedRequest = "Invalid request format or value"
	MsgUnexpected       = "An unexpected error occurred"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Fields     map[string]string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// ValidationError reports field level validation failures keyed by wire path.
func ValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    MsgValidationFailed,
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

// MalformedRequest reports a payload that could not be decoded.
func MalformedRequest(err error) *AppError {
	return NewAppError(CodeBadRequest, MsgMalformedRequest, http.StatusBadRequest, err)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
