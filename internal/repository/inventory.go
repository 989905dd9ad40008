package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"ticketing/internal/entities"
)

// InventoryRepo is the inventory ledger. Reserve is a single conditional
// decrement, so concurrent bookings cannot oversell an event no matter how
// far apart the caller's availability check and reserve are.
type InventoryRepo struct {
	db *sqlx.DB
}

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) CreateEvent(ctx context.Context, event *entities.Event) error {
	query := `
		INSERT INTO event_inventory (
			event_id, title, price, total_tickets, available_tickets
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.Title,
		event.Price,
		event.TotalTickets,
		event.AvailableTickets,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *InventoryRepo) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	var event entities.Event

	query := `
		SELECT event_id AS id, title, price, total_tickets, available_tickets, created_at
		FROM event_inventory
		WHERE event_id = $1`

	err := r.db.GetContext(ctx, &event, query, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// CheckAvailability is a plain read and therefore only a hint; another
// booking may take the tickets before the caller reserves.
func (r *InventoryRepo) CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error) {
	event, err := r.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &entities.AvailabilityResult{
		EventID:          event.ID,
		AvailableTickets: event.AvailableTickets,
		RequestedTickets: tickets,
		IsAvailable:      event.AvailableTickets >= tickets,
	}, nil
}

// Reserve decrements available_tickets by tickets if and only if enough
// remain, in one statement. Zero affected rows means either the event is
// unknown or the inventory ran out; the follow-up read tells them apart.
func (r *InventoryRepo) Reserve(ctx context.Context, eventID string, tickets int) (int, error) {
	var remaining int

	query := `
		UPDATE event_inventory
		SET available_tickets = available_tickets - $2
		WHERE event_id = $1 AND available_tickets >= $2
		RETURNING available_tickets`

	err := r.db.QueryRowContext(ctx, query, eventID, tickets).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetEvent(ctx, eventID); getErr != nil {
				return 0, getErr
			}
			return 0, entities.ErrInsufficientInventory
		}
		return 0, fmt.Errorf("failed to reserve tickets: %w", err)
	}

	return remaining, nil
}
