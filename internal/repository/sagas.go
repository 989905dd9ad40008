package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ticketing/internal/entities"
)

var ErrSagaNotFound = errors.New("booking saga not found")

// SagasRepo persists saga progress as a JSON payload keyed by booking, so
// the compensation point survives a crash between steps.
type SagasRepo struct {
	db *sqlx.DB
}

func NewSagasRepo(db *sqlx.DB) *SagasRepo {
	return &SagasRepo{db: db}
}

func (r *SagasRepo) Add(ctx context.Context, saga *entities.BookingSaga) error {
	payload, err := json.Marshal(saga)
	if err != nil {
		return fmt.Errorf("failed to marshal saga: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO booking_sagas (booking_id, state, payload, updated_at)
		VALUES ($1, $2, $3, $4)`,
		saga.BookingID, saga.State, payload, saga.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert saga: %w", err)
	}

	return nil
}

func (r *SagasRepo) GetByBookingID(ctx context.Context, bookingID string) (*entities.BookingSaga, error) {
	var payload []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT payload
		FROM booking_sagas
		WHERE booking_id = $1`,
		bookingID,
	).Scan(&payload)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSagaNotFound
		}
		return nil, fmt.Errorf("failed to get saga: %w", err)
	}

	var saga entities.BookingSaga
	if err := json.Unmarshal(payload, &saga); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saga: %w", err)
	}

	return &saga, nil
}

func (r *SagasRepo) UpdateByBookingID(
	ctx context.Context,
	bookingID string,
	updateFn func(saga *entities.BookingSaga) error,
) (*entities.BookingSaga, error) {
	saga, err := r.GetByBookingID(ctx, bookingID)
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

	_, err = r.db.ExecContext(ctx, `
		UPDATE booking_sagas
		SET state = $2, payload = $3, updated_at = $4
		WHERE booking_id = $1`,
		saga.BookingID, saga.State, payload, saga.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to persist saga: %w", err)
	}

	return saga, nil
}
