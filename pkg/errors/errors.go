package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidInput        = errors.New("invalid input")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductIncompatible = errors.New("request is outside product bounds")
	ErrComparisonNotFound  = errors.New("comparison not found")
	ErrNoCompatibleProduct = errors.New("no compatible product")
	ErrExportFailed        = errors.New("export failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
	// Fields carries per-field messages for validation failures.
	Fields map[string][]string
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductIncompatible = "PRODUCT_INCOMPATIBLE"
	ErrCodeComparisonNotFound  = "COMPARISON_NOT_FOUND"
	ErrCodeNoCompatibleProduct = "NO_COMPATIBLE_PRODUCT"
	ErrCodeDatabaseError       = "DATABASE_ERROR"
	ErrCodeCacheError          = "CACHE_ERROR"
	ErrCodeExportError         = "EXPORT_ERROR"
)

// Wrap common errors with business context

func WrapValidationFailed(fields map[string][]string) *BusinessError {
	e := NewBusinessError(
		ErrCodeValidationFailed,
		fmt.Sprintf("%d field(s) failed validation", len(fields)),
		ErrValidationFailed,
	)
	e.Fields = fields
	return e
}

func WrapInvalidInput(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		"invalid input",
		fmt.Errorf("%w: %w", ErrInvalidInput, err),
	)
}

func WrapProductNotFound(productID string) *BusinessError {
	return NewBusinessError(
		ErrCodeProductNotFound,
		fmt.Sprintf("Product with ID %s not found", productID),
		ErrProductNotFound,
	)
}

func WrapProductIncompatible(productID string, fields map[string][]string) *BusinessError {
	e := NewBusinessError(
		ErrCodeProductIncompatible,
		fmt.Sprintf("Request does not fit product %s", productID),
		ErrProductIncompatible,
	)
	e.Fields = fields
	return e
}

func WrapComparisonNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeComparisonNotFound,
		fmt.Sprintf("Comparison with ID %s not found", id),
		ErrComparisonNotFound,
	)
}

func WrapNoCompatibleProduct() *BusinessError {
	return NewBusinessError(
		ErrCodeNoCompatibleProduct,
		"No active product matches the requested amount and duration",
		ErrNoCompatibleProduct,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapExportError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeExportError,
		"export failed",
		fmt.Errorf("%w: %w", ErrExportFailed, err),
	)
}

// CodeOf returns the business code carried by err, or "" when err is not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
