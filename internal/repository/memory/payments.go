package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ticketing/internal/entities"
)

type PaymentsRepo struct {
	mu       sync.Mutex
	payments map[string]entities.Payment // keyed by payment ID
	byBookng map[string]string           // booking ID -> payment ID
}

func NewPaymentsRepo() *PaymentsRepo {
	return &PaymentsRepo{
		payments: make(map[string]entities.Payment),
		byBookng: make(map[string]string),
	}
}

func (r *PaymentsRepo) Create(_ context.Context, payment *entities.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byBookng[payment.BookingID]; exists {
		return fmt.Errorf("payment for booking %s already exists", payment.BookingID)
	}

	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	r.payments[payment.ID] = *payment
	r.byBookng[payment.BookingID] = payment.ID

	return nil
}

func (r *PaymentsRepo) GetByBookingID(_ context.Context, bookingID string) (*entities.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byBookng[bookingID]
	if !ok {
		return nil, nil
	}

	payment := r.payments[id]
	return &payment, nil
}

func (r *PaymentsRepo) UpdateStatus(_ context.Context, id string, status entities.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s not found", id)
	}
	if payment.Status != entities.PaymentStatusPending {
		return fmt.Errorf("payment %s already has a terminal status", id)
	}

	payment.Status = status
	payment.UpdatedAt = time.Now().UTC()
	r.payments[id] = payment

	return nil
}

func (r *PaymentsRepo) MarkRefundRequired(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s not found", id)
	}

	payment.RefundRequired = true
	payment.UpdatedAt = time.Now().UTC()
	r.payments[id] = payment

	return nil
}
