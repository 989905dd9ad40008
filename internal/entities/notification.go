package entities

import (
	"fmt"
	"time"
)

type EmailStatus string

const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

const (
	NotificationTypeBookingConfirmation = "booking_confirmation"
	NotificationTypeBookingCancellation = "booking_cancellation"
)

// NotificationRecord is created once per (BookingID, Type). Redelivered
// messages must not produce a second record.
type NotificationRecord struct {
	ID          string         `json:"id" db:"id"`
	UserID      string         `json:"userId" db:"user_id"`
	BookingID   string         `json:"bookingId" db:"booking_id"`
	Type        string         `json:"type" db:"type"`
	Title       string         `json:"title" db:"title"`
	Message     string         `json:"message" db:"message"`
	Metadata    map[string]any `json:"metadata" db:"-"`
	EmailStatus EmailStatus    `json:"emailStatus" db:"email_status"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

func NewBookingConfirmationNotification(event BookingConfirmed) NotificationRecord {
	return NotificationRecord{
		UserID:    event.UserID,
		BookingID: event.BookingID,
		Type:      NotificationTypeBookingConfirmation,
		Title:     "Booking Confirmed",
		Message: fmt.Sprintf(
			"Your booking for %s has been confirmed. Booking reference: %s",
			event.EventName, event.BookingID,
		),
		Metadata: map[string]any{
			"bookingId":   event.BookingID,
			"eventId":     event.EventID,
			"eventName":   event.EventName,
			"tickets":     event.Tickets,
			"totalAmount": event.TotalAmount,
			"status":      event.Status,
		},
		EmailStatus: EmailStatusPending,
	}
}

func NewBookingCancellationNotification(event BookingCancelled) NotificationRecord {
	return NotificationRecord{
		UserID:    event.UserID,
		BookingID: event.BookingID,
		Type:      NotificationTypeBookingCancellation,
		Title:     "Booking Cancelled",
		Message:   fmt.Sprintf("Your booking (%s) has been cancelled.", event.BookingID),
		Metadata: map[string]any{
			"bookingId": event.BookingID,
			"eventId":   event.EventID,
			"status":    event.Status,
		},
		EmailStatus: EmailStatusPending,
	}
}
