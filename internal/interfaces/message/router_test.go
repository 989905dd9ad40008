package message_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillmessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/application/usecases/notifications"
	"ticketing/internal/entities"
	"ticketing/internal/infrastructure/clients"
	"ticketing/internal/interfaces/message"
	"ticketing/internal/interfaces/message/events"
	"ticketing/internal/repository/memory"
)

// channelFactory satisfies events.SubscriberFactory with an in-process
// pubsub, so the whole publish-consume-project path runs without a
// broker.
type channelFactory struct {
	pubSub *gochannel.GoChannel
}

func (f channelFactory) NewSubscriber() (watermillmessage.Subscriber, error) {
	return f.pubSub, nil
}

func TestRouter_ProjectsPublishedEvents(t *testing.T) {
	logger := watermill.NopLogger{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)

	repo := memory.NewNotificationsRepo()
	projector := notifications.NewProjector(repo, clients.NewEmailClient(0))

	router, err := message.NewRouter(
		logger,
		pubSub,
		events.NewEventProcessorConfig(channelFactory{pubSub: pubSub}, logger),
		events.NewHandler(projector),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = router.Run(ctx)
	}()
	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	bus, err := events.NewEventBus(pubSub, logger)
	require.NoError(t, err)

	err = bus.Publish(ctx, entities.BookingConfirmed{
		BookingID:   "booking-1",
		UserID:      "user-1",
		EventID:     "event-1",
		EventName:   "Go Conference",
		Tickets:     2,
		TotalAmount: 100,
		Status:      "CONFIRMED",
	})
	require.NoError(t, err)

	err = bus.Publish(ctx, entities.BookingCancelled{
		BookingID: "booking-2",
		UserID:    "user-1",
		EventID:   "event-1",
		Status:    "CANCELLED",
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		records, err := repo.ListByUser(context.Background(), "user-1")
		return err == nil && len(records) == 2
	}, 5*time.Second, 10*time.Millisecond)

	records, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)

	types := map[string]bool{}
	for _, record := range records {
		types[record.Type] = true
		assert.Equal(t, entities.EmailStatusSent, record.EmailStatus)
	}
	assert.True(t, types[entities.NotificationTypeBookingConfirmation])
	assert.True(t, types[entities.NotificationTypeBookingCancellation])
}

func TestEventTopicsMatchWireContract(t *testing.T) {
	assert.Equal(t, "booking_confirmed", entities.BookingConfirmed{}.Name())
	assert.Equal(t, "booking_cancelled", entities.BookingCancelled{}.Name())
}
