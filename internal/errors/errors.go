// Package errors provides the application error type shared by services and
// handlers. Services return AppErrors so handlers can render a consistent
// response without leaking store internals.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches AppErrors by code so wrapped copies compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Insufficient permissions", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Reference data errors.
var (
	ErrOwnerNotFound     = &AppError{Code: "OWNER_NOT_FOUND", Message: "Owner not found", StatusCode: http.StatusNotFound}
	ErrComplexNotFound   = &AppError{Code: "COMPLEX_NOT_FOUND", Message: "Complex not found", StatusCode: http.StatusNotFound}
	ErrReferenceNotFound = &AppError{Code: "REFERENCE_NOT_FOUND", Message: "Referenced complex or owner does not exist", StatusCode: http.StatusUnprocessableEntity}
	ErrEntityConflict    = &AppError{Code: "ENTITY_CONFLICT", Message: "Could not resolve entity after a uniqueness conflict", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidUtilityType  = &AppError{Code: "INVALID_UTILITY_TYPE", Message: "Utility type must be water, electricity or gas", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
)

// Import errors.
var (
	ErrMalformedWorkbook = &AppError{Code: "MALFORMED_WORKBOOK", Message: "Uploaded file is not a readable workbook", StatusCode: http.StatusBadRequest}
	ErrSheetNotFound     = &AppError{Code: "SHEET_NOT_FOUND", Message: "Sheet not found", StatusCode: http.StatusBadRequest}
	ErrImportNotFound    = &AppError{Code: "IMPORT_NOT_FOUND", Message: "Import run not found", StatusCode: http.StatusNotFound}
)
