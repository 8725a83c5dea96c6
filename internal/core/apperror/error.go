// Package apperror provides structured error handling.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal     = "INTERNAL_ERROR"
	CodeStoreFailure = "STORE_FAILURE"

	// Validation errors (400)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidQuantity = "INVALID_QUANTITY"
	CodeBinNotFound     = "BIN_NOT_FOUND"
	CodeItemNotFound    = "ITEM_NOT_FOUND"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the service.
// It implements the error interface and provides structured details for API
// responses. MessageZH carries the Chinese half of the bilingual operator
// messages shown in the warehouse UI.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// MessageZH is the Chinese operator-facing message, when one exists
	MessageZH string `json:"message_zh,omitempty"`

	// Details contains additional context (codes, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewBinNotFound reports an unknown bin code on a write path (400).
// Bins are never auto-created, so this is a client error.
func NewBinNotFound(binCode string) *AppError {
	return &AppError{
		Code:       CodeBinNotFound,
		Message:    "Bin does not exist",
		MessageZH:  "库位不存在",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"bin_code": binCode},
	}
}

// NewItemNotFound reports an unknown item code on a write path (400).
func NewItemNotFound(itemCode string) *AppError {
	return &AppError{
		Code:       CodeItemNotFound,
		Message:    "Item does not exist",
		MessageZH:  "商品不存在",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"item_code": itemCode},
	}
}

// NewInvalidQuantity reports a negative or non-integer quantity (400).
func NewInvalidQuantity(field string, value any) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    "Quantity must be a non-negative integer",
		MessageZH:  "数量必须为非负整数",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field, "value": value},
	}
}

// NewNotFound creates a generic not found error (404).
func NewNotFound(entity string, key any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "key": key},
	}
}

// NewStoreFailure wraps a failed store operation (500). The transaction is
// rolled back by the caller; no partial state is visible.
func NewStoreFailure(err error) *AppError {
	return &AppError{
		Code:       CodeStoreFailure,
		Message:    "Storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks for any of the not-found codes.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Code {
		case CodeNotFound, CodeBinNotFound, CodeItemNotFound:
			return true
		}
	}
	return false
}
