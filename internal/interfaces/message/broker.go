package message

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	amqp "github.com/ThreeDotsLabs/watermill-amqp/v2/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Broker owns the single AMQP connection shared by every publisher and
// subscriber in the process. Queues are durable and named after the
// topic, deliveries are persistent, and a dropped connection is redialed
// at a fixed interval until the broker comes back.
type Broker struct {
	config    amqp.Config
	conn      *amqp.ConnectionWrapper
	publisher message.Publisher
	logger    watermill.LoggerAdapter
}

func NewBroker(amqpURL string, reconnectInterval time.Duration, logger watermill.LoggerAdapter) (*Broker, error) {
	config := amqp.NewDurableQueueConfig(amqpURL)
	config.Connection.Reconnect = &amqp.ReconnectConfig{
		BackoffInitialInterval: reconnectInterval,
		BackoffMaxInterval:     reconnectInterval,
		BackoffMultiplier:      1,
	}

	conn, err := amqp.NewConnection(config.Connection, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	publisher, err := amqp.NewPublisherWithConnection(config, logger, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	return &Broker{
		config:    config,
		conn:      conn,
		publisher: publisher,
		logger:    logger,
	}, nil
}

func (b *Broker) Publisher() message.Publisher {
	return b.publisher
}

// NewSubscriber returns a subscriber multiplexed over the shared
// connection. Messages a handler fails on are redelivered by the broker.
func (b *Broker) NewSubscriber() (message.Subscriber, error) {
	subscriber, err := amqp.NewSubscriberWithConnection(b.config, b.logger, b.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	return subscriber, nil
}

func (b *Broker) Close() error {
	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("failed to close publisher: %w", err)
	}

	return b.conn.Close()
}
