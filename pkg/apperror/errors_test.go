package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsMatchesByKind(t *testing.T) {
	// GIVEN a wrapped not-found error for a specific resource
	err := fmt.Errorf("lookup: %w", NewNotFoundError("Product"))

	// THEN it matches the sentinel of the same kind only
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "Product not found", err.(interface{ Unwrap() error }).Unwrap().Error())
}

func TestGetAppError_PlainErrorBecomesUnexpected(t *testing.T) {
	appErr := GetAppError(errors.New("disk full"))

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, KindUnexpected, appErr.Kind)
	assert.Equal(t, "disk full", appErr.Message)
	assert.False(t, IsAppError(errors.New("disk full")))
}

func TestNewInsufficientStockError_CarriesShortage(t *testing.T) {
	shortage := StockShortage{ProductID: uuid.New(), Code: "A1", Requested: 5, Available: 2}

	appErr := NewInsufficientStockError(shortage)

	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, KindInsufficientStock, appErr.Kind)
	assert.Contains(t, appErr.Message, "A1")
	got, ok := appErr.Detail.(StockShortage)
	require.True(t, ok)
	assert.Equal(t, shortage, got)
}

func TestNewFieldValidationError(t *testing.T) {
	appErr := NewFieldValidationError("items", "at least one item is required")

	assert.Equal(t, KindValidation, appErr.Kind)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "items", appErr.Errors[0].Field)
}

func TestNewUnexpectedError_AppendsCause(t *testing.T) {
	appErr := NewUnexpectedError("Failed to save photo", errors.New("timeout"))
	assert.Equal(t, "Failed to save photo: timeout", appErr.Message)

	bare := NewUnexpectedError("Failed to save photo", nil)
	assert.Equal(t, "Failed to save photo", bare.Message)
}
