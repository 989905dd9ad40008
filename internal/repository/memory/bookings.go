package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ticketing/internal/entities"
)

type BookingsRepo struct {
	mu         sync.Mutex
	bookings   map[string]entities.Booking
	references map[string]struct{}
}

func NewBookingsRepo() *BookingsRepo {
	return &BookingsRepo{
		bookings:   make(map[string]entities.Booking),
		references: make(map[string]struct{}),
	}
}

func (r *BookingsRepo) Create(_ context.Context, booking *entities.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.references[booking.BookingReference]; exists {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateReference, booking.BookingReference)
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	r.bookings[booking.ID] = *booking
	r.references[booking.BookingReference] = struct{}{}

	return nil
}

func (r *BookingsRepo) GetByID(_ context.Context, id string) (*entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, entities.ErrBookingNotFound
	}

	return &booking, nil
}

func (r *BookingsRepo) ListByUser(_ context.Context, userID string) ([]entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var bookings []entities.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})

	return bookings, nil
}

func (r *BookingsRepo) UpdateStatus(_ context.Context, id string, from, to entities.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return entities.ErrBookingNotFound
	}
	if booking.Status != from {
		return fmt.Errorf("booking %s is not %s anymore", id, from)
	}

	booking.Status = to
	booking.UpdatedAt = time.Now().UTC()
	r.bookings[id] = booking

	return nil
}

func (r *BookingsRepo) Cancel(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[id]
	if !ok {
		return entities.ErrBookingNotFound
	}
	if booking.Status == entities.BookingStatusCancelled {
		return entities.ErrAlreadyCancelled
	}

	booking.Status = entities.BookingStatusCancelled
	booking.UpdatedAt = time.Now().UTC()
	r.bookings[id] = booking

	return nil
}
