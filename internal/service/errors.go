package service

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed error kinds for the sale transaction processor. Handlers match them
// with errors.As to pick the HTTP status; the caller sees exactly one kind
// per failed request and the database is left untouched.

// ValidationError covers malformed input: empty item list, non-positive
// quantity, unknown product or customer id, bad payment method.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports which product could not cover the requested
// quantity and by how much.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d (short by %d)",
		e.ProductName, e.Requested, e.Available, e.Shortfall())
}

// Shortfall is the number of units missing to satisfy the request.
func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

// PersistenceError wraps an underlying commit failure. The transaction has
// been rolled back; the cause is preserved for logging.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }
