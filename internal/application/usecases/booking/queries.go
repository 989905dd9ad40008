package booking

import (
	"context"
	"fmt"

	"ticketing/internal/entities"
	"ticketing/internal/log"
)

// GetBooking returns the booking with its payment attached when one
// exists.
func (o *Orchestrator) GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error) {
	booking, err := o.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	payment, err := o.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		log.FromContext(ctx).
			WithField("booking_id", bookingID).
			WithError(err).
			Error("Failed to load payment")
	}
	booking.Payment = payment

	return booking, nil
}

// ListUserBookings returns all bookings belonging to a user, newest
// first.
func (o *Orchestrator) ListUserBookings(ctx context.Context, userID string) ([]entities.Booking, error) {
	bookings, err := o.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}
