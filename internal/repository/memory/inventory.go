// Package memory holds map-backed repositories with the same semantics as
// the Postgres ones. They serve local runs without external services and
// the unit tests, which depend on the ledger's atomicity guarantees.
package memory

import (
	"context"
	"sync"
	"time"

	"ticketing/internal/entities"
)

type inventoryEntry struct {
	mu    sync.Mutex
	event entities.Event
}

// InventoryRepo guards each event with its own mutex, so a reserve is one
// indivisible check-and-decrement per event.
type InventoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*inventoryEntry
}

func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{entries: make(map[string]*inventoryEntry)}
}

func (r *InventoryRepo) CreateEvent(_ context.Context, event *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.CreatedAt = time.Now().UTC()
	r.entries[event.ID] = &inventoryEntry{event: *event}

	return nil
}

func (r *InventoryRepo) getEntry(eventID string) (*inventoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[eventID]
	if !ok {
		return nil, entities.ErrEventNotFound
	}

	return entry, nil
}

func (r *InventoryRepo) GetEvent(_ context.Context, eventID string) (*entities.Event, error) {
	entry, err := r.getEntry(eventID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	event := entry.event
	return &event, nil
}

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

func (r *InventoryRepo) Reserve(_ context.Context, eventID string, tickets int) (int, error) {
	entry, err := r.getEntry(eventID)
	if err != nil {
		return 0, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.event.AvailableTickets < tickets {
		return 0, entities.ErrInsufficientInventory
	}

	entry.event.AvailableTickets -= tickets
	return entry.event.AvailableTickets, nil
}
