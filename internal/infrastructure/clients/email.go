package clients

import (
	"context"
	"time"

	"ticketing/internal/log"
)

type EmailRequest struct {
	To      string
	Subject string
	Body    string
}

// EmailClient stands in for the real mail provider: it logs the message
// and reports success after a short delay. Failures are simulated by the
// tests through their own fakes.
type EmailClient struct {
	delay time.Duration
}

func NewEmailClient(delay time.Duration) *EmailClient {
	return &EmailClient{delay: delay}
}

func (c *EmailClient) Send(ctx context.Context, req EmailRequest) error {
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.FromContext(ctx).
		WithField("to", req.To).
		WithField("subject", req.Subject).
		Info("Sent email")

	return nil
}
