package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind identifies the category of an application error
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindDuplicateKey      Kind = "duplicate_key"
	KindValidation        Kind = "validation_failed"
	KindBadRequest        Kind = "bad_request"
	KindConflict          Kind = "conflict"
	KindRateLimited       Kind = "rate_limited"
	KindUnexpected        Kind = "unexpected"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"-"`
	Kind    Kind         `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Detail  interface{}  `json:"detail,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches two AppErrors by kind so callers can use errors.Is(err, apperror.ErrNotFound)
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrNotFound          = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrBadRequest        = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer    = &AppError{Code: http.StatusInternalServerError, Kind: KindUnexpected, Message: "Internal server error"}
	ErrDuplicateKey      = &AppError{Code: http.StatusBadRequest, Kind: KindDuplicateKey, Message: "Resource already exists"}
	ErrInsufficientStock = &AppError{Code: http.StatusBadRequest, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrValidation        = &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: "Validation failed"}
	ErrRateLimited       = &AppError{Code: http.StatusTooManyRequests, Kind: KindRateLimited, Message: "Rate limit exceeded. Please try again later."}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldValidationError creates a validation error for a single field
func NewFieldValidationError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewDuplicateKeyError creates a duplicate key error with a custom message
func NewDuplicateKeyError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindDuplicateKey,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewUnexpectedError wraps a storage or upload failure
func NewUnexpectedError(message string, err error) *AppError {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindUnexpected,
		Message: message,
	}
}

// StockShortage describes the product that failed a sale
type StockShortage struct {
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"product_code"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
}

// NewInsufficientStockError creates an insufficient stock error for a product
func NewInsufficientStockError(shortage StockShortage) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", shortage.Code, shortage.Requested, shortage.Available),
		Detail:  shortage,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindUnexpected,
		Message: err.Error(),
	}
}
