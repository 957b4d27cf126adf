package errors

import (
	"fmt"
)

// ErrNotFound indicates a resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidStateTransition indicates a disallowed order status transition
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrValidation indicates a rejected request payload
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// ErrPaymentFailed indicates a payment gateway failure. No order exists
// when this is returned from checkout.
type ErrPaymentFailed struct {
	Stage   string // "create" or "confirm"
	Message string
}

func (e *ErrPaymentFailed) Error() string {
	return fmt.Sprintf("payment %s failed: %s", e.Stage, e.Message)
}

// ErrUnauthorized indicates a failed authentication
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrReconciliationRequired indicates payment was captured but the order
// could not be persisted. The payment reference is recorded for manual
// follow-up; the caller must not retry automatically.
type ErrReconciliationRequired struct {
	GatewayOrderID string
	PaymentID      string
}

func (e *ErrReconciliationRequired) Error() string {
	return fmt.Sprintf("payment %s captured but order could not be saved, contact support with reference %s",
		e.PaymentID, e.GatewayOrderID)
}
