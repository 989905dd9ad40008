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

type NotificationsRepo struct {
	db *sqlx.DB
}

func NewNotificationsRepo(db *sqlx.DB) *NotificationsRepo {
	return &NotificationsRepo{db: db}
}

// Create inserts a notification record unless one already exists for the
// same (booking_id, type). The bool reports whether a row was inserted;
// false means the message is a redelivery and must be skipped.
func (r *NotificationsRepo) Create(ctx context.Context, record *entities.NotificationRecord) (bool, error) {
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return false, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO notifications (
			id, user_id, booking_id, type, title, message, metadata, email_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (booking_id, type) DO NOTHING
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		record.ID,
		record.UserID,
		record.BookingID,
		record.Type,
		record.Title,
		record.Message,
		metadata,
		record.EmailStatus,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create notification: %w", err)
	}

	return true, nil
}

func (r *NotificationsRepo) UpdateEmailStatus(ctx context.Context, id string, status entities.EmailStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET email_status = $2, updated_at = now()
		WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update email status: %w", err)
	}

	return nil
}

func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string) ([]entities.NotificationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, booking_id, type, title, message, metadata,
		       email_status, created_at, updated_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var records []entities.NotificationRecord
	for rows.Next() {
		var record entities.NotificationRecord
		var metadata []byte

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.BookingID,
			&record.Type,
			&record.Title,
			&record.Message,
			&metadata,
			&record.EmailStatus,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
