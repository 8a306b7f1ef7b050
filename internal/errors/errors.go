// Package errors provides custom error types for the folio API.
// Service-layer failures are returned as *AppError so handlers can render
// a stable code and message without leaking storage details to clients.
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

// Is reports whether target carries the same code, so a wrapped sentinel
// still matches errors.Is(err, ErrX).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
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

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrNotConfigured  = &AppError{Code: "NOT_CONFIGURED", Message: "Endpoint is not configured", StatusCode: http.StatusServiceUnavailable}
)

// Platform errors.
var (
	ErrPlatformNotFound  = &AppError{Code: "PLATFORM_NOT_FOUND", Message: "Platform not found", StatusCode: http.StatusNotFound}
	ErrDuplicatePlatform = &AppError{Code: "DUPLICATE_PLATFORM", Message: "A platform with this name already exists", StatusCode: http.StatusConflict}
	ErrPlatformInUse     = &AppError{Code: "PLATFORM_IN_USE", Message: "Platform is referenced by transactions", StatusCode: http.StatusConflict}
)

// Asset errors.
var (
	ErrAssetNotFound  = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAsset = &AppError{Code: "DUPLICATE_ASSET", Message: "An asset with this symbol already exists", StatusCode: http.StatusConflict}
	ErrAssetInUse     = &AppError{Code: "ASSET_IN_USE", Message: "Asset is referenced by transactions", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransaction  = &AppError{Code: "INVALID_TRANSACTION", Message: "Transaction violates ledger invariants", StatusCode: http.StatusBadRequest}
)

// Market data errors.
var (
	ErrPriceNotFound      = &AppError{Code: "PRICE_NOT_FOUND", Message: "Price snapshot not found", StatusCode: http.StatusNotFound}
	ErrFxSnapshotNotFound = &AppError{Code: "FX_NOT_FOUND", Message: "FX snapshot not found", StatusCode: http.StatusNotFound}
)

// Import errors.
var (
	ErrImportEmpty            = &AppError{Code: "IMPORT_EMPTY", Message: "No valid rows to import", StatusCode: http.StatusUnprocessableEntity}
	ErrImportNotReady         = &AppError{Code: "IMPORT_NOT_READY", Message: "Import has unresolved errors", StatusCode: http.StatusUnprocessableEntity}
	ErrInvalidStateTransition = &AppError{Code: "INVALID_STATE_TRANSITION", Message: "Import state transition not allowed", StatusCode: http.StatusConflict}
)
