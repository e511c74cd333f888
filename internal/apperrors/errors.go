package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is authenticated but not allowed to act.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates that a stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrEntryInvoiced indicates an attempt to modify a time entry that is
// already attached to a finalized invoice.
var ErrEntryInvoiced = errors.New("time entry already invoiced")

// ErrInvoiceNotEditable indicates an attempt to modify an invoice after it
// left draft status.
var ErrInvoiceNotEditable = errors.New("invoice cannot be edited after finalization")

// AppError wraps an underlying error with an HTTP-ish status code and message.
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

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError creates a 400 AppError.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewUnauthorizedError creates a 401 AppError.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: 401, Message: message, Err: ErrUnauthorized}
}

// NewNotFoundError creates a 404 AppError.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewInternalServerError creates a 500 AppError.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: 500, Message: message}
}

// NewGatewayTimeoutError creates a 504 AppError, used when an upstream
// provider does not respond in time.
func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: 504, Message: message}
}
