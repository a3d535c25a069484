package errors

import (
	"fmt"
	"strings"
)

// FieldError describes a single violated constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation found in a request.
// It is produced before any side effect occurs.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CatalogError reports cart entries that reference products the catalog
// cannot sell: unknown ids or inactive products.
type CatalogError struct {
	MissingIDs  []string
	InactiveIDs []string
}

func (e *CatalogError) Error() string {
	var parts []string
	if len(e.MissingIDs) > 0 {
		parts = append(parts, "unknown products: "+strings.Join(e.MissingIDs, ", "))
	}
	if len(e.InactiveIDs) > 0 {
		parts = append(parts, "inactive products: "+strings.Join(e.InactiveIDs, ", "))
	}
	return "catalog lookup failed: " + strings.Join(parts, "; ")
}

// PaymentProviderError wraps a failure to create a payment session.
type PaymentProviderError struct {
	Provider string
	Err      error
}

func (e *PaymentProviderError) Error() string {
	return fmt.Sprintf("%s session creation failed: %v", e.Provider, e.Err)
}

func (e *PaymentProviderError) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a missing resource.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized indicates a failed authentication attempt.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrInvalidStateTransition indicates an order status change that the
// state machine does not allow.
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrIdempotencyConflict indicates an idempotency key reused with a
// different request body.
type ErrIdempotencyConflict struct {
	Key string
}

func (e *ErrIdempotencyConflict) Error() string {
	return fmt.Sprintf("idempotency key %s was already used with a different request", e.Key)
}
