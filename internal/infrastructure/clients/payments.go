package clients

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"ticketing/internal/entities"
	"ticketing/internal/log"
)

// PaymentsClient is the mock settlement gateway. A settlement takes Delay,
// then succeeds with probability SuccessRate. One attempt per call; retry
// and compensation policy belong to the caller.
type PaymentsClient struct {
	delay       time.Duration
	successRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

type PaymentsClientConfig struct {
	Delay       time.Duration
	SuccessRate float64

	// Seed makes settlement outcomes reproducible in tests. Zero seeds
	// from the clock.
	Seed int64
}

func NewPaymentsClient(cfg PaymentsClientConfig) *PaymentsClient {
	if cfg.Delay == 0 {
		cfg.Delay = time.Second
	}
	if cfg.SuccessRate == 0 {
		cfg.SuccessRate = 0.9
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &PaymentsClient{
		delay:       cfg.Delay,
		successRate: cfg.SuccessRate,
		rnd:         rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (c *PaymentsClient) Settle(ctx context.Context, payment entities.Payment) (*entities.SettlementResult, error) {
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	c.mu.Lock()
	success := c.rnd.Float64() < c.successRate
	c.mu.Unlock()

	result := &entities.SettlementResult{
		Success:       success,
		TransactionID: payment.TransactionID,
		Message:       "Payment processed successfully",
	}
	if !success {
		result.Message = "Payment failed"
	}

	log.FromContext(ctx).
		WithField("transaction_id", payment.TransactionID).
		WithField("success", success).
		Info("Settled payment")

	return result, nil
}
