package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/application/usecases/inventory"
	"ticketing/internal/entities"
	"ticketing/internal/repository/memory"
)

func TestService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	svc := inventory.NewService(memory.NewInventoryRepo())

	event, err := svc.CreateEvent(ctx, entities.CreateEventRequest{
		Title:        "Go Conference",
		Price:        50,
		TotalTickets: 100,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, 100, event.AvailableTickets, "a new event starts fully available")

	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
}

func TestService_CreateEventValidation(t *testing.T) {
	svc := inventory.NewService(memory.NewInventoryRepo())

	_, err := svc.CreateEvent(context.Background(), entities.CreateEventRequest{
		Title:        "",
		Price:        10,
		TotalTickets: 5,
	})

	var validationErr *entities.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "title", validationErr.Field)
}

func TestService_ReserveAndAvailability(t *testing.T) {
	ctx := context.Background()
	svc := inventory.NewService(memory.NewInventoryRepo())

	event, err := svc.CreateEvent(ctx, entities.CreateEventRequest{
		Title:        "Go Conference",
		Price:        50,
		TotalTickets: 10,
	})
	require.NoError(t, err)

	result, err := svc.CheckAvailability(ctx, event.ID, 3)
	require.NoError(t, err)
	assert.True(t, result.IsAvailable)

	remaining, err := svc.Reserve(ctx, event.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, remaining)

	result, err = svc.CheckAvailability(ctx, event.ID, 8)
	require.NoError(t, err)
	assert.False(t, result.IsAvailable)
	assert.Equal(t, 7, result.AvailableTickets)
}

func TestService_ReserveRejectsNonPositiveCounts(t *testing.T) {
	svc := inventory.NewService(memory.NewInventoryRepo())

	var validationErr *entities.ValidationError

	_, err := svc.Reserve(context.Background(), "event-1", 0)
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Reserve(context.Background(), "event-1", -2)
	require.ErrorAs(t, err, &validationErr)
}

func TestService_UnknownEvent(t *testing.T) {
	svc := inventory.NewService(memory.NewInventoryRepo())

	_, err := svc.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, entities.ErrEventNotFound)

	_, err = svc.Reserve(context.Background(), "missing", 1)
	require.ErrorIs(t, err, entities.ErrEventNotFound)
}
