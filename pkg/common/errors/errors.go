package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common sentinel errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrRunActive    = errors.New("analysis run already active")
	ErrInternal     = errors.New("internal error")
)

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a common error to an AppError with an appropriate HTTP status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, ErrInvalidInput) {
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	}
	if errors.Is(err, ErrNotFound) {
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	}
	if errors.Is(err, ErrRunActive) {
		return NewAppError(http.StatusConflict, "An analysis run is already in progress", err)
	}

	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}
