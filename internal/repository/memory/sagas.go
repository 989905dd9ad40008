package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ticketing/internal/entities"
	"ticketing/internal/repository"
)

// SagasRepo stores saga payloads as JSON to mirror the Postgres repo's
// round-trip behavior.
type SagasRepo struct {
	mu    sync.Mutex
	sagas map[string][]byte
}

func NewSagasRepo() *SagasRepo {
	return &SagasRepo{sagas: make(map[string][]byte)}
}

func (r *SagasRepo) Add(_ context.Context, saga *entities.BookingSaga) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := json.Marshal(saga)
	if err != nil {
		return fmt.Errorf("failed to marshal saga: %w", err)
	}

	r.sagas[saga.BookingID] = payload
	return nil
}

func (r *SagasRepo) GetByBookingID(_ context.Context, bookingID string) (*entities.BookingSaga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.getLocked(bookingID)
}

func (r *SagasRepo) getLocked(bookingID string) (*entities.BookingSaga, error) {
	payload, ok := r.sagas[bookingID]
	if !ok {
		return nil, repository.ErrSagaNotFound
	}

	var saga entities.BookingSaga
	if err := json.Unmarshal(payload, &saga); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saga: %w", err)
	}

	return &saga, nil
}

func (r *SagasRepo) UpdateByBookingID(
	_ context.Context,
	bookingID string,
	updateFn func(saga *entities.BookingSaga) error,
) (*entities.BookingSaga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saga, err := r.getLocked(bookingID)
	if err != nil {
		return nil, err
	}

	if err := updateFn(saga); err != nil {
		return nil, fmt.Errorf("failed to update saga: %w", err)
	}

	payload, err := json.Marshal(saga)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal saga: %w", err)
	}

	r.sagas[bookingID] = payload
	return saga, nil
}
