package entities

// Queue wire format. Topic names double as queue names on the broker, so
// each event carries its topic via Name.

type BookingConfirmed struct {
	BookingID   string  `json:"booking_id"`
	UserID      string  `json:"user_id"`
	EventID     string  `json:"event_id"`
	EventName   string  `json:"event_name"`
	Tickets     int     `json:"tickets"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
}

func (BookingConfirmed) Name() string {
	return "booking_confirmed"
}

type BookingCancelled struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	Status    string `json:"status"`
}

func (BookingCancelled) Name() string {
	return "booking_cancelled"
}
