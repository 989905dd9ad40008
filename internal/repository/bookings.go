package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ticketing/internal/entities"
)

const pgUniqueViolation = "23505"

type BookingsRepo struct {
	db *sqlx.DB
}

func NewBookingsRepo(db *sqlx.DB) *BookingsRepo {
	return &BookingsRepo{db: db}
}

func (r *BookingsRepo) Create(ctx context.Context, booking *entities.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, event_id, ticket_count, total_amount, status, booking_reference
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.ID,
		booking.UserID,
		booking.EventID,
		booking.TicketCount,
		booking.TotalAmount,
		booking.Status,
		booking.BookingReference,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		pgErr := &pq.Error{}
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", entities.ErrDuplicateReference, booking.BookingReference)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *BookingsRepo) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	var booking entities.Booking

	query := `
		SELECT id, user_id, event_id, ticket_count, total_amount, status,
		       booking_reference, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return &booking, nil
}

func (r *BookingsRepo) ListByUser(ctx context.Context, userID string) ([]entities.Booking, error) {
	var bookings []entities.Booking

	query := `
		SELECT id, user_id, event_id, ticket_count, total_amount, status,
		       booking_reference, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus moves a booking from one status to another. The condition
// keeps transitions monotonic even when requests race: zero affected rows
// means the booking was not in the expected status anymore.
func (r *BookingsRepo) UpdateStatus(ctx context.Context, id string, from, to entities.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("booking %s is not %s anymore", id, from)
	}

	return nil
}

// Cancel marks a booking cancelled unless it already is. ErrAlreadyCancelled
// is returned in that case, leaving the record untouched.
func (r *BookingsRepo) Cancel(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status <> $2`,
		id, entities.BookingStatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return entities.ErrAlreadyCancelled
	}

	return nil
}
