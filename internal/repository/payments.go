package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ticketing/internal/entities"
)

type PaymentsRepo struct {
	db *sqlx.DB
}

func NewPaymentsRepo(db *sqlx.DB) *PaymentsRepo {
	return &PaymentsRepo{db: db}
}

func (r *PaymentsRepo) Create(ctx context.Context, payment *entities.Payment) error {
	query := `
		INSERT INTO payments (
			id, booking_id, amount, currency, method, status, transaction_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Currency,
		payment.Method,
		payment.Status,
		payment.TransactionID,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *PaymentsRepo) GetByBookingID(ctx context.Context, bookingID string) (*entities.Payment, error) {
	var payment entities.Payment

	query := `
		SELECT id, booking_id, amount, currency, method, status, transaction_id,
		       refund_required, created_at, updated_at
		FROM payments
		WHERE booking_id = $1`

	err := r.db.GetContext(ctx, &payment, query, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// UpdateStatus moves a pending payment to its terminal status exactly once.
func (r *PaymentsRepo) UpdateStatus(ctx context.Context, id string, status entities.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		id, status, entities.PaymentStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("payment %s already has a terminal status", id)
	}

	return nil
}

func (r *PaymentsRepo) MarkRefundRequired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET refund_required = TRUE, updated_at = now()
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to flag payment for refund: %w", err)
	}

	return nil
}
