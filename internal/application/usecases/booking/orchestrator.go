// Package booking drives the booking saga: availability check, booking
// record, mock settlement, atomic inventory reservation and the outcome
// event, plus every compensation taken when a step fails partway.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ticketing/internal/entities"
	"ticketing/internal/log"
)

// referenceAttempts bounds the regenerate-and-retry loop on booking
// reference collisions.
const referenceAttempts = 3

type EventsService interface {
	CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error)
	GetEvent(ctx context.Context, eventID string) (*entities.Event, error)
	Reserve(ctx context.Context, eventID string, tickets int) (int, error)
}

type PaymentsGateway interface {
	Settle(ctx context.Context, payment entities.Payment) (*entities.SettlementResult, error)
}

type BookingsRepository interface {
	Create(ctx context.Context, booking *entities.Booking) error
	GetByID(ctx context.Context, id string) (*entities.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to entities.BookingStatus) error
	Cancel(ctx context.Context, id string) error
}

type PaymentsRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByBookingID(ctx context.Context, bookingID string) (*entities.Payment, error)
	UpdateStatus(ctx context.Context, id string, status entities.PaymentStatus) error
	MarkRefundRequired(ctx context.Context, id string) error
}

type SagasRepository interface {
	Add(ctx context.Context, saga *entities.BookingSaga) error
	UpdateByBookingID(
		ctx context.Context,
		bookingID string,
		updateFn func(saga *entities.BookingSaga) error,
	) (*entities.BookingSaga, error)
}

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

type Orchestrator struct {
	eventsService EventsService
	gateway       PaymentsGateway
	bookings      BookingsRepository
	payments      PaymentsRepository
	sagas         SagasRepository
	eventBus      EventBus
}

func NewOrchestrator(
	eventsService EventsService,
	gateway PaymentsGateway,
	bookings BookingsRepository,
	payments PaymentsRepository,
	sagas SagasRepository,
	eventBus EventBus,
) *Orchestrator {
	return &Orchestrator{
		eventsService: eventsService,
		gateway:       gateway,
		bookings:      bookings,
		payments:      payments,
		sagas:         sagas,
		eventBus:      eventBus,
	}
}

// CreateBooking runs the saga for one request. The steps are strictly
// sequential; concurrency exists only across requests, which is why the
// ledger's reserve has to be atomic. Every payment-bearing booking leaves
// here confirmed or cancelled, never pending.
func (o *Orchestrator) CreateBooking(ctx context.Context, req entities.CreateBookingRequest) (*entities.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	availability, err := o.eventsService.CheckAvailability(ctx, req.EventID, req.TicketCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if !availability.IsAvailable {
		return nil, entities.ErrInsufficientInventory
	}

	event, err := o.eventsService.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	totalAmount := event.Price * float64(req.TicketCount)

	saga := entities.NewBookingSaga(uuid.NewString())
	if err := o.sagas.Add(ctx, saga); err != nil {
		return nil, fmt.Errorf("failed to start saga: %w", err)
	}
	o.advance(ctx, saga.BookingID, entities.SagaAvailabilityChecked)

	booking := &entities.Booking{
		ID:          saga.BookingID,
		UserID:      req.UserID,
		EventID:     req.EventID,
		TicketCount: req.TicketCount,
		TotalAmount: totalAmount,
		Status:      entities.BookingStatusPending,
	}
	if err := o.createWithUniqueReference(ctx, booking); err != nil {
		return nil, err
	}
	o.advance(ctx, booking.ID, entities.SagaBookingCreated)

	if req.PaymentMethod == "" {
		// No payment yet: the booking stays pending until the caller
		// settles or cancels it.
		return booking, nil
	}

	payment, err := o.settlePayment(ctx, booking, event, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	booking.Payment = payment
	return booking, nil
}

func (o *Orchestrator) settlePayment(
	ctx context.Context,
	booking *entities.Booking,
	event *entities.Event,
	method string,
) (*entities.Payment, error) {
	payment := &entities.Payment{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		Amount:        booking.TotalAmount,
		Currency:      "USD",
		Method:        method,
		Status:        entities.PaymentStatusPending,
		TransactionID: entities.NewTransactionID(time.Now()),
	}
	if err := o.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	o.advance(ctx, booking.ID, entities.SagaPaymentPending)

	result, err := o.gateway.Settle(ctx, *payment)
	if err != nil || !result.Success {
		o.compensatePaymentFailure(ctx, booking, payment)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entities.ErrPaymentFailed, err)
		}
		return nil, entities.ErrPaymentFailed
	}

	if err := o.payments.UpdateStatus(ctx, payment.ID, entities.PaymentStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}
	payment.Status = entities.PaymentStatusCompleted
	o.advance(ctx, booking.ID, entities.SagaPaymentSettled)

	remaining, err := o.eventsService.Reserve(ctx, booking.EventID, booking.TicketCount)
	if err != nil {
		// The race was lost after the payment settled: cancel the
		// booking and flag the completed payment for a refund.
		o.compensateLostReservation(ctx, booking, payment)
		if errors.Is(err, entities.ErrInsufficientInventory) {
			return nil, entities.ErrInventoryRaceLost
		}
		return nil, fmt.Errorf("failed to reserve tickets: %w", err)
	}
	o.advance(ctx, booking.ID, entities.SagaInventoryReserved)

	log.FromContext(ctx).
		WithField("booking_id", booking.ID).
		WithField("remaining_tickets", remaining).
		Info("Reserved tickets")

	if err := o.bookings.UpdateStatus(ctx, booking.ID, entities.BookingStatusPending, entities.BookingStatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	booking.Status = entities.BookingStatusConfirmed
	o.advance(ctx, booking.ID, entities.SagaConfirmed)

	// Best effort: the booking already succeeded, a broker outage must
	// not undo it.
	err = o.eventBus.Publish(ctx, entities.BookingConfirmed{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		EventID:     booking.EventID,
		EventName:   event.Title,
		Tickets:     booking.TicketCount,
		TotalAmount: booking.TotalAmount,
		Status:      "CONFIRMED",
	})
	if err != nil {
		log.FromContext(ctx).
			WithField("booking_id", booking.ID).
			WithError(err).
			Error("Failed to publish booking_confirmed")
	}

	return payment, nil
}

func (o *Orchestrator) compensatePaymentFailure(ctx context.Context, booking *entities.Booking, payment *entities.Payment) {
	logger := log.FromContext(ctx).WithField("booking_id", booking.ID)

	if err := o.payments.UpdateStatus(ctx, payment.ID, entities.PaymentStatusFailed); err != nil {
		logger.WithError(err).Error("Failed to mark payment failed")
	}
	payment.Status = entities.PaymentStatusFailed
	o.advance(ctx, booking.ID, entities.SagaPaymentFailed)

	if err := o.bookings.UpdateStatus(ctx, booking.ID, entities.BookingStatusPending, entities.BookingStatusCancelled); err != nil {
		logger.WithError(err).Error("Failed to cancel booking after payment failure")
	}
	booking.Status = entities.BookingStatusCancelled
	o.advance(ctx, booking.ID, entities.SagaCancelled)
}

func (o *Orchestrator) compensateLostReservation(ctx context.Context, booking *entities.Booking, payment *entities.Payment) {
	logger := log.FromContext(ctx).WithField("booking_id", booking.ID)

	if err := o.bookings.UpdateStatus(ctx, booking.ID, entities.BookingStatusPending, entities.BookingStatusCancelled); err != nil {
		logger.WithError(err).Error("Failed to cancel booking after lost reservation")
	}
	booking.Status = entities.BookingStatusCancelled

	if err := o.payments.MarkRefundRequired(ctx, payment.ID); err != nil {
		logger.WithError(err).Error("Failed to flag payment for refund")
	}
	payment.RefundRequired = true

	_, err := o.sagas.UpdateByBookingID(ctx, booking.ID, func(saga *entities.BookingSaga) error {
		saga.CompensationRequired = true
		return saga.Advance(entities.SagaCancelled)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to record saga compensation")
	}
}

func (o *Orchestrator) createWithUniqueReference(ctx context.Context, booking *entities.Booking) error {
	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		booking.BookingReference = entities.NewBookingReference(time.Now())

		err = o.bookings.Create(ctx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, entities.ErrDuplicateReference) {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		log.FromContext(ctx).
			WithField("booking_reference", booking.BookingReference).
			Warn("Booking reference collision, regenerating")
	}

	return fmt.Errorf("failed to create booking after %d attempts: %w", referenceAttempts, err)
}

// advance moves the persisted saga forward. A failure here is logged and
// not propagated: the business commit already happened, the marker is
// bookkeeping for crash recovery.
func (o *Orchestrator) advance(ctx context.Context, bookingID string, to entities.SagaState) {
	_, err := o.sagas.UpdateByBookingID(ctx, bookingID, func(saga *entities.BookingSaga) error {
		return saga.Advance(to)
	})
	if err != nil {
		log.FromContext(ctx).
			WithField("booking_id", bookingID).
			WithField("state", to).
			WithError(err).
			Error("Failed to advance saga")
	}
}
