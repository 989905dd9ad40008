package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingSaga_HappyPath(t *testing.T) {
	saga := NewBookingSaga("booking-1")
	require.Equal(t, SagaInit, saga.State)

	steps := []SagaState{
		SagaAvailabilityChecked,
		SagaBookingCreated,
		SagaPaymentPending,
		SagaPaymentSettled,
		SagaInventoryReserved,
		SagaConfirmed,
	}
	for _, step := range steps {
		require.NoError(t, saga.Advance(step))
		assert.Equal(t, step, saga.State)
		assert.Contains(t, saga.Steps, step)
	}

	assert.True(t, saga.IsTerminal())
}

func TestBookingSaga_RejectsSkippedSteps(t *testing.T) {
	saga := NewBookingSaga("booking-1")

	err := saga.Advance(SagaPaymentSettled)
	require.ErrorIs(t, err, ErrInvalidSagaTransition)
	assert.Equal(t, SagaInit, saga.State, "state must not change on a rejected transition")
}

func TestBookingSaga_CancelledIsTerminal(t *testing.T) {
	saga := NewBookingSaga("booking-1")
	require.NoError(t, saga.Advance(SagaAvailabilityChecked))
	require.NoError(t, saga.Advance(SagaBookingCreated))
	require.NoError(t, saga.Advance(SagaCancelled))

	assert.True(t, saga.IsTerminal())
	require.ErrorIs(t, saga.Advance(SagaPaymentPending), ErrInvalidSagaTransition)
	require.ErrorIs(t, saga.Advance(SagaCancelled), ErrInvalidSagaTransition)
}

func TestBookingSaga_ConfirmedAllowsLaterCancellation(t *testing.T) {
	saga := NewBookingSaga("booking-1")
	for _, step := range []SagaState{
		SagaAvailabilityChecked,
		SagaBookingCreated,
		SagaPaymentPending,
		SagaPaymentSettled,
		SagaInventoryReserved,
		SagaConfirmed,
	} {
		require.NoError(t, saga.Advance(step))
	}

	require.NoError(t, saga.Advance(SagaCancelled))
	assert.Equal(t, SagaCancelled, saga.State)
}
