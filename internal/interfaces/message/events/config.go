package events

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// SubscriberFactory hands out one subscriber per handler, each riding
// the shared broker connection.
type SubscriberFactory interface {
	NewSubscriber() (message.Subscriber, error)
}

func NewEventProcessorConfig(
	subscribers SubscriberFactory,
	logger watermill.LoggerAdapter,
) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			return params.EventName, nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return subscribers.NewSubscriber()
		},
		Marshaler: marshaler,
		Logger:    logger,
	}
}
