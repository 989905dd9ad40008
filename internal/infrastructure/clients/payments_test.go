package clients

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/entities"
)

func TestPaymentsClient_SeededOutcomesAreReproducible(t *testing.T) {
	ctx := context.Background()

	newClient := func() *PaymentsClient {
		return NewPaymentsClient(PaymentsClientConfig{
			Delay:       time.Millisecond,
			SuccessRate: 0.5,
			Seed:        42,
		})
	}

	first := newClient()
	second := newClient()

	for i := 0; i < 20; i++ {
		a, err := first.Settle(ctx, entities.Payment{TransactionID: "TXN1"})
		require.NoError(t, err)
		b, err := second.Settle(ctx, entities.Payment{TransactionID: "TXN1"})
		require.NoError(t, err)

		assert.Equal(t, a.Success, b.Success, "outcome %d diverged", i)
	}
}

func TestPaymentsClient_AlwaysSucceedsAtFullRate(t *testing.T) {
	ctx := context.Background()
	client := NewPaymentsClient(PaymentsClientConfig{
		Delay:       time.Millisecond,
		SuccessRate: 1.0,
		Seed:        1,
	})

	for i := 0; i < 10; i++ {
		result, err := client.Settle(ctx, entities.Payment{TransactionID: "TXN1"})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "TXN1", result.TransactionID)
	}
}

func TestPaymentsClient_RespectsContextCancellation(t *testing.T) {
	client := NewPaymentsClient(PaymentsClientConfig{
		Delay:       time.Minute,
		SuccessRate: 1.0,
		Seed:        1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Settle(ctx, entities.Payment{TransactionID: "TXN1"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
