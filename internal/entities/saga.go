package entities

import (
	"fmt"
	"time"
)

// SagaState is a step marker of the booking saga. Transitions are
// restricted to the table below; once the saga reaches confirmed or
// cancelled it cannot move again.
type SagaState string

const (
	SagaInit                SagaState = "init"
	SagaAvailabilityChecked SagaState = "availability_checked"
	SagaBookingCreated      SagaState = "booking_created"
	SagaPaymentPending      SagaState = "payment_pending"
	SagaPaymentSettled      SagaState = "payment_settled"
	SagaPaymentFailed       SagaState = "payment_failed"
	SagaInventoryReserved   SagaState = "inventory_reserved"
	SagaConfirmed           SagaState = "confirmed"
	SagaCancelled           SagaState = "cancelled"
)

var sagaTransitions = map[SagaState][]SagaState{
	SagaInit:                {SagaAvailabilityChecked},
	SagaAvailabilityChecked: {SagaBookingCreated},
	// booking_created is terminal-for-now when no payment method is
	// supplied; a later cancellation moves it straight to cancelled.
	SagaBookingCreated:    {SagaPaymentPending, SagaCancelled},
	SagaPaymentPending:    {SagaPaymentSettled, SagaPaymentFailed},
	SagaPaymentSettled:    {SagaInventoryReserved, SagaCancelled},
	SagaPaymentFailed:     {SagaCancelled},
	SagaInventoryReserved: {SagaConfirmed, SagaCancelled},
	SagaConfirmed:         {SagaCancelled},
	SagaCancelled:         {},
}

var ErrInvalidSagaTransition = fmt.Errorf("invalid saga transition")

// BookingSaga is the persisted progress of one booking's saga. Each
// advance records a step marker, so after a crash the compensation point
// is recoverable from storage.
type BookingSaga struct {
	BookingID string `json:"booking_id"`

	State SagaState `json:"state"`

	// Steps holds the time each state was entered.
	Steps map[SagaState]time.Time `json:"steps"`

	// CompensationRequired is set when a completed payment has to be
	// refunded because inventory was lost after settlement.
	CompensationRequired bool `json:"compensation_required"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingSaga(bookingID string) *BookingSaga {
	now := time.Now().UTC()
	return &BookingSaga{
		BookingID: bookingID,
		State:     SagaInit,
		Steps:     map[SagaState]time.Time{SagaInit: now},
		UpdatedAt: now,
	}
}

func (s *BookingSaga) Advance(to SagaState) error {
	for _, allowed := range sagaTransitions[s.State] {
		if allowed == to {
			now := time.Now().UTC()
			s.State = to
			s.Steps[to] = now
			s.UpdatedAt = now
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidSagaTransition, s.State, to)
}

func (s *BookingSaga) IsTerminal() bool {
	return s.State == SagaConfirmed || s.State == SagaCancelled
}
