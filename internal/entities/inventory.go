package entities

import "time"

// Event is the ticketed event together with its inventory counts. The
// counts are only ever mutated through the ledger's atomic reserve, so
// 0 <= available_tickets <= total_tickets holds at all times.
type Event struct {
	ID               string    `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Price            float64   `json:"price" db:"price"`
	TotalTickets     int       `json:"totalTickets" db:"total_tickets"`
	AvailableTickets int       `json:"availableTickets" db:"available_tickets"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

type CreateEventRequest struct {
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	TotalTickets int     `json:"totalTickets"`
}

func (r CreateEventRequest) Validate() error {
	if r.Title == "" {
		return NewValidationError("title", "is required")
	}
	if r.Price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	if r.TotalTickets < 1 {
		return NewValidationError("totalTickets", "must be at least 1")
	}

	return nil
}

// AvailabilityResult is a read-only hint. It may be stale by the time the
// caller acts on it; only Reserve is binding.
type AvailabilityResult struct {
	EventID          string `json:"eventId"`
	AvailableTickets int    `json:"availableTickets"`
	RequestedTickets int    `json:"requestedTickets"`
	IsAvailable      bool   `json:"isAvailable"`
}
