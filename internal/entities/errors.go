package entities

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientInventory = errors.New("not enough tickets available")
	ErrPaymentFailed         = errors.New("payment failed")
	ErrInventoryRaceLost     = errors.New("inventory reservation lost to a concurrent booking")
	ErrBrokerUnavailable     = errors.New("message broker unavailable")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrAlreadyCancelled      = errors.New("booking is already cancelled")
	ErrDuplicateReference    = errors.New("booking reference already exists")
)

// ValidationError reports a rejected request field. It maps to a 400 at
// the HTTP edge and never leaves a booking record behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
