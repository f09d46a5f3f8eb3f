package shared

import (
	"errors"
	"net/http"
)

// AppError is the user-visible error envelope. Every terminal failure the API can
// produce maps to one of the constructors below; anything else renders as a 500.
type AppError struct {
	StatusCode int         `json:"code"`
	Code       string      `json:"error"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`

	err error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return e.Code + ": " + e.err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.err
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST", Message: message, err: err}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Code: "FORBIDDEN", Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: "NOT_FOUND", Message: message}
}

func NewConflictError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: "CONFLICT", Message: message, err: err}
}

// NewAlreadyCompletedError guards every mutation of a finalized session.
func NewAlreadyCompletedError() *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: "ALREADY_COMPLETED", Message: "Challenge already completed"}
}

// NewNoMoreImagesError is returned when a reveal is requested past the last still.
func NewNoMoreImagesError() *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: "NO_MORE_IMAGES", Message: "All images already revealed"}
}

func NewRateLimitError(message string) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Code: "RATE_LIMITED", Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "Internal Server Error", err: err}
}
