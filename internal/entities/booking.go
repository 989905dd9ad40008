package entities

import (
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsTerminal reports whether the status can no longer change. Status
// transitions are monotonic: pending -> confirmed | cancelled.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCancelled
}

type Booking struct {
	ID               string        `json:"id" db:"id"`
	UserID           string        `json:"userId" db:"user_id"`
	EventID          string        `json:"eventId" db:"event_id"`
	TicketCount      int           `json:"ticketCount" db:"ticket_count"`
	TotalAmount      float64       `json:"totalAmount" db:"total_amount"`
	Status           BookingStatus `json:"status" db:"status"`
	BookingReference string        `json:"bookingReference" db:"booking_reference"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`

	Payment *Payment `json:"payment,omitempty" db:"-"`
}

type CreateBookingRequest struct {
	UserID        string `json:"userId"`
	EventID       string `json:"eventId"`
	TicketCount   int    `json:"ticketCount"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
}

func (r CreateBookingRequest) Validate() error {
	if r.UserID == "" {
		return NewValidationError("userId", "is required")
	}
	if r.EventID == "" {
		return NewValidationError("eventId", "is required")
	}
	if r.TicketCount < 1 {
		return NewValidationError("ticketCount", "must be at least 1")
	}

	return nil
}

// NewBookingReference builds a reference of the form BK-<UTC time>-<suffix>.
// The random suffix keeps collisions rare; the storage layer still enforces
// uniqueness and the caller regenerates on conflict.
func NewBookingReference(now time.Time) string {
	return fmt.Sprintf("BK-%s-%s", now.UTC().Format("20060102150405"), shortuuid.New()[:8])
}
