// Package inventory exposes the ticket ledger owned by the event
// service: seeding events, availability reads and the atomic reserve.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ticketing/internal/entities"
	"ticketing/internal/log"
)

type Ledger interface {
	CreateEvent(ctx context.Context, event *entities.Event) error
	GetEvent(ctx context.Context, eventID string) (*entities.Event, error)
	CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error)
	Reserve(ctx context.Context, eventID string, tickets int) (int, error)
}

type Service struct {
	ledger Ledger
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

func (s *Service) CreateEvent(ctx context.Context, req entities.CreateEventRequest) (*entities.Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event := &entities.Event{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Price:            req.Price,
		TotalTickets:     req.TotalTickets,
		AvailableTickets: req.TotalTickets,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.ledger.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	log.FromContext(ctx).
		WithField("event_id", event.ID).
		WithField("total_tickets", event.TotalTickets).
		Info("Created event")

	return event, nil
}

func (s *Service) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	return s.ledger.GetEvent(ctx, eventID)
}

// CheckAvailability is a read-only hint. The answer can be stale the
// moment it is returned; only Reserve decides.
func (s *Service) CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error) {
	if tickets <= 0 {
		return nil, entities.NewValidationError("tickets", "must be positive")
	}

	return s.ledger.CheckAvailability(ctx, eventID, tickets)
}

// Reserve decrements the ledger atomically and returns the remaining
// count. Losing the race surfaces as ErrInsufficientInventory.
func (s *Service) Reserve(ctx context.Context, eventID string, tickets int) (int, error) {
	if tickets <= 0 {
		return 0, entities.NewValidationError("tickets", "must be positive")
	}

	remaining, err := s.ledger.Reserve(ctx, eventID, tickets)
	if err != nil {
		return 0, err
	}

	log.FromContext(ctx).
		WithField("event_id", eventID).
		WithField("tickets", tickets).
		WithField("remaining_tickets", remaining).
		Info("Reserved tickets")

	return remaining, nil
}
