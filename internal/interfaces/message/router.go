package message

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"ticketing/internal/interfaces/message/events"
)

// PoisonQueueTopic holds messages that kept failing after every retry,
// so one bad payload cannot block its queue.
const PoisonQueueTopic = "booking_events_poison"

func NewRouter(
	watermillLogger watermill.LoggerAdapter,
	poisonPublisher message.Publisher,
	eventProcessorConfig cqrs.EventProcessorConfig,
	eventHandler *events.Handler,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	if err := initMiddlewares(router, watermillLogger, poisonPublisher); err != nil {
		return nil, err
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		return nil, err
	}

	err = eventProcessor.AddHandlers(
		eventHandler.BookingConfirmedHandler(),
		eventHandler.BookingCancelledHandler(),
	)
	if err != nil {
		return nil, err
	}

	return router, nil
}

func initMiddlewares(
	router *message.Router,
	watermillLogger watermill.LoggerAdapter,
	poisonPublisher message.Publisher,
) error {
	poisonQueue, err := middleware.PoisonQueue(poisonPublisher, PoisonQueueTopic)
	if err != nil {
		return err
	}

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)
	router.AddMiddleware(poisonQueue)
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      10,
		InitialInterval: time.Millisecond * 100,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)
	router.AddMiddleware(events.MetricsMiddleware)

	return nil
}
