package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/entities"
)

func TestBookingsRepo_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingsRepo()

	first := &entities.Booking{
		ID:               "booking-1",
		UserID:           "user-1",
		EventID:          "event-1",
		TicketCount:      1,
		Status:           entities.BookingStatusPending,
		BookingReference: "BK-20250101000000-abcd1234",
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := *first
	dup.ID = "booking-2"
	err := repo.Create(ctx, &dup)
	require.ErrorIs(t, err, entities.ErrDuplicateReference)
}

func TestBookingsRepo_UpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingsRepo()

	booking := &entities.Booking{
		ID:               "booking-1",
		UserID:           "user-1",
		Status:           entities.BookingStatusPending,
		BookingReference: "BK-20250101000000-abcd1234",
	}
	require.NoError(t, repo.Create(ctx, booking))

	require.NoError(t, repo.UpdateStatus(ctx, "booking-1", entities.BookingStatusPending, entities.BookingStatusConfirmed))

	err := repo.UpdateStatus(ctx, "booking-1", entities.BookingStatusPending, entities.BookingStatusCancelled)
	require.Error(t, err, "stale transition must be rejected")

	got, err := repo.GetByID(ctx, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusConfirmed, got.Status)
}

func TestBookingsRepo_CancelTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingsRepo()

	booking := &entities.Booking{
		ID:               "booking-1",
		UserID:           "user-1",
		Status:           entities.BookingStatusPending,
		BookingReference: "BK-20250101000000-abcd1234",
	}
	require.NoError(t, repo.Create(ctx, booking))

	require.NoError(t, repo.Cancel(ctx, "booking-1"))
	require.ErrorIs(t, repo.Cancel(ctx, "booking-1"), entities.ErrAlreadyCancelled)
}

func TestBookingsRepo_ListByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingsRepo()

	for _, id := range []string{"booking-1", "booking-2"} {
		require.NoError(t, repo.Create(ctx, &entities.Booking{
			ID:               id,
			UserID:           "user-1",
			Status:           entities.BookingStatusPending,
			BookingReference: entities.NewBookingReference(time.Now()),
		}))
	}
	require.NoError(t, repo.Create(ctx, &entities.Booking{
		ID:               "booking-3",
		UserID:           "user-2",
		Status:           entities.BookingStatusPending,
		BookingReference: entities.NewBookingReference(time.Now()),
	}))

	bookings, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
	for _, b := range bookings {
		assert.Equal(t, "user-1", b.UserID)
	}

	missing, err := repo.GetByID(ctx, "nope")
	require.ErrorIs(t, err, entities.ErrBookingNotFound)
	assert.Nil(t, missing)
}
