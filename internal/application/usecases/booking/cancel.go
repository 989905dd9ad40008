package booking

import (
	"context"
	"fmt"

	"ticketing/internal/entities"
	"ticketing/internal/log"
)

// Cancel moves a booking to cancelled. Tickets are not returned to the
// ledger; a completed payment is flagged for a refund. Cancelling twice
// returns ErrAlreadyCancelled.
func (o *Orchestrator) Cancel(ctx context.Context, bookingID string) (*entities.Booking, error) {
	booking, err := o.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == entities.BookingStatusCancelled {
		return nil, entities.ErrAlreadyCancelled
	}

	if err := o.bookings.Cancel(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	booking.Status = entities.BookingStatusCancelled

	logger := log.FromContext(ctx).WithField("booking_id", bookingID)

	payment, err := o.payments.GetByBookingID(ctx, bookingID)
	if err != nil {
		logger.WithError(err).Error("Failed to load payment for cancellation")
	}
	if payment != nil && payment.Status == entities.PaymentStatusCompleted {
		logger.WithField("transaction_id", payment.TransactionID).Info("Processing refund for booking")
		if err := o.payments.MarkRefundRequired(ctx, payment.ID); err != nil {
			logger.WithError(err).Error("Failed to flag payment for refund")
		} else {
			payment.RefundRequired = true
		}
	}
	booking.Payment = payment

	o.advance(ctx, bookingID, entities.SagaCancelled)

	err = o.eventBus.Publish(ctx, entities.BookingCancelled{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		EventID:   booking.EventID,
		Status:    "CANCELLED",
	})
	if err != nil {
		logger.WithError(err).Error("Failed to publish booking_cancelled")
	}

	return booking, nil
}
