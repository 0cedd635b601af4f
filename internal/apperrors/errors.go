// internal/apperrors/errors.go
package apperrors

import (
	"fmt"
	"strings"
)

// ValidationError rejects malformed input before any transaction opens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a record could not be located. Raised inside a
// reconciliation transaction it aborts the whole unit.
type NotFoundError struct {
	Resource string
	Detail   string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Detail)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFoundError(resource, detail string) *NotFoundError {
	return &NotFoundError{Resource: resource, Detail: detail}
}

// StockShortfall is one raw-material line whose requirement exceeds the
// available stock.
type StockShortfall struct {
	ProductCode string  `json:"product_id"`
	ProductName string  `json:"name"`
	Required    float64 `json:"required"`
	Available   float64 `json:"available"`
}

// InsufficientStockError carries every shortfall found across all lines, so
// the operator sees the full list in one response.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (%s): required %g, available %g",
			s.ProductName, s.ProductCode, s.Required, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// AmbiguousReferenceError means the resolution chain exhausted every lookup
// strategy for a line item. Always fatal to the enclosing unit.
type AmbiguousReferenceError struct {
	LineItem string
}

func (e *AmbiguousReferenceError) Error() string {
	return fmt.Sprintf("could not resolve product for line item %q", e.LineItem)
}
