package notifications_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/application/usecases/notifications"
	"ticketing/internal/entities"
	"ticketing/internal/infrastructure/clients"
	"ticketing/internal/repository/memory"
)

type fakeEmail struct {
	sent []clients.EmailRequest
	err  error
}

func (f *fakeEmail) Send(_ context.Context, req clients.EmailRequest) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

func confirmedEvent() *entities.BookingConfirmed {
	return &entities.BookingConfirmed{
		BookingID:   "booking-1",
		UserID:      "user-1",
		EventID:     "event-1",
		EventName:   "Go Conference",
		Tickets:     2,
		TotalAmount: 100,
		Status:      "CONFIRMED",
	}
}

func TestProjector_BookingConfirmed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationsRepo()
	email := &fakeEmail{}
	projector := notifications.NewProjector(repo, email)

	require.NoError(t, projector.HandleBookingConfirmed(ctx, confirmedEvent()))

	records, err := projector.ListUserNotifications(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, entities.NotificationTypeBookingConfirmation, record.Type)
	assert.Equal(t, "Booking Confirmed", record.Title)
	assert.Contains(t, record.Message, "Go Conference")
	assert.Contains(t, record.Message, "booking-1")
	assert.Equal(t, entities.EmailStatusSent, record.EmailStatus)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "user-1", email.sent[0].To)
	assert.Equal(t, "Booking Confirmed", email.sent[0].Subject)
}

func TestProjector_RedeliveryCreatesNoDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationsRepo()
	email := &fakeEmail{}
	projector := notifications.NewProjector(repo, email)

	event := confirmedEvent()
	require.NoError(t, projector.HandleBookingConfirmed(ctx, event))
	require.NoError(t, projector.HandleBookingConfirmed(ctx, event))
	require.NoError(t, projector.HandleBookingConfirmed(ctx, event))

	records, err := projector.ListUserNotifications(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 1, "redeliveries must be absorbed")
	assert.Len(t, email.sent, 1, "one email per notification")
}

func TestProjector_EmailFailureIsRecordedNotRetried(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationsRepo()
	email := &fakeEmail{err: errors.New("smtp down")}
	projector := notifications.NewProjector(repo, email)

	err := projector.HandleBookingConfirmed(ctx, confirmedEvent())
	require.NoError(t, err, "the record is the commit; the failure lives on the row")

	records, err := projector.ListUserNotifications(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entities.EmailStatusFailed, records[0].EmailStatus)
}

func TestProjector_BookingCancelled(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationsRepo()
	email := &fakeEmail{}
	projector := notifications.NewProjector(repo, email)

	err := projector.HandleBookingCancelled(ctx, &entities.BookingCancelled{
		BookingID: "booking-1",
		UserID:    "user-1",
		EventID:   "event-1",
		Status:    "CANCELLED",
	})
	require.NoError(t, err)

	records, err := projector.ListUserNotifications(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, entities.NotificationTypeBookingCancellation, records[0].Type)
	assert.Equal(t, "Booking Cancelled", records[0].Title)
}

func TestProjector_ConfirmationAndCancellationCoexist(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewNotificationsRepo()
	projector := notifications.NewProjector(repo, &fakeEmail{})

	require.NoError(t, projector.HandleBookingConfirmed(ctx, confirmedEvent()))
	require.NoError(t, projector.HandleBookingCancelled(ctx, &entities.BookingCancelled{
		BookingID: "booking-1",
		UserID:    "user-1",
		EventID:   "event-1",
		Status:    "CANCELLED",
	}))

	records, err := projector.ListUserNotifications(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
