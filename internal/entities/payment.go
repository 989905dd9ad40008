package entities

import (
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type Payment struct {
	ID            string        `json:"id" db:"id"`
	BookingID     string        `json:"bookingId" db:"booking_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Currency      string        `json:"currency" db:"currency"`
	Method        string        `json:"paymentMethod" db:"method"`
	Status        PaymentStatus `json:"status" db:"status"`
	TransactionID string        `json:"transactionId" db:"transaction_id"`

	// RefundRequired marks a completed payment that must be compensated
	// because a later saga step failed. No gateway call is made; the
	// marker is the compensation record.
	RefundRequired bool `json:"refundRequired" db:"refund_required"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SettlementResult is what the mock gateway answers for a single attempt.
type SettlementResult struct {
	Success       bool
	TransactionID string
	Message       string
}

func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN%d%s", now.UnixMilli(), shortuuid.New()[:6])
}
