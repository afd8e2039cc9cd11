package common

import (
	"errors"
	"net/http"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
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

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// Precondition failures the billing engine reports to callers. Every one of
// them aborts the request before any state mutation.

// ValidationError flags missing or invalid request data.
func ValidationError(message string) *AppError {
	return NewAppError("VALIDATION_ERROR", message, http.StatusBadRequest, nil)
}

// NotFoundError flags an absent vehicle, driver, session, or tariff.
func NotFoundError(message string) *AppError {
	return NewAppError("NOT_FOUND", message, http.StatusNotFound, nil)
}

// InactiveEntityError flags a vehicle or driver that exists but is disabled.
func InactiveEntityError(message string) *AppError {
	return NewAppError("INACTIVE_ENTITY", message, http.StatusUnprocessableEntity, nil)
}

// CapacityExceededError flags a full lot for the requested vehicle type.
func CapacityExceededError(message string) *AppError {
	return NewAppError("CAPACITY_EXCEEDED", message, http.StatusConflict, nil)
}

// ConfigMissingError flags that no billing tariff has ever been created.
func ConfigMissingError() *AppError {
	return NewAppError("CONFIG_MISSING", "no billing tariff has been configured", http.StatusPreconditionFailed, nil)
}
