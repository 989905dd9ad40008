// Package notifications projects booking outcome events into
// notification records and sends the matching emails.
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ticketing/internal/entities"
	"ticketing/internal/infrastructure/clients"
	"ticketing/internal/log"
)

type Repository interface {
	Create(ctx context.Context, record *entities.NotificationRecord) (bool, error)
	UpdateEmailStatus(ctx context.Context, id string, status entities.EmailStatus) error
	ListByUser(ctx context.Context, userID string) ([]entities.NotificationRecord, error)
}

type EmailSender interface {
	Send(ctx context.Context, req clients.EmailRequest) error
}

// Projector consumes booking events at-least-once. The (booking, type)
// unique key in the repository makes redeliveries no-ops.
type Projector struct {
	repo  Repository
	email EmailSender
}

func NewProjector(repo Repository, email EmailSender) *Projector {
	return &Projector{repo: repo, email: email}
}

func (p *Projector) HandleBookingConfirmed(ctx context.Context, event *entities.BookingConfirmed) error {
	record := entities.NewBookingConfirmationNotification(*event)
	return p.project(ctx, record)
}

func (p *Projector) HandleBookingCancelled(ctx context.Context, event *entities.BookingCancelled) error {
	record := entities.NewBookingCancellationNotification(*event)
	return p.project(ctx, record)
}

// project writes the record and sends the email. The record is the
// commit: once it exists the message is consumed, so an email failure is
// recorded on the row instead of nacking the delivery and duplicating
// the notification.
func (p *Projector) project(ctx context.Context, record entities.NotificationRecord) error {
	record.ID = uuid.NewString()

	logger := log.FromContext(ctx).
		WithField("booking_id", record.BookingID).
		WithField("type", record.Type)

	created, err := p.repo.Create(ctx, &record)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if !created {
		logger.Info("Skipping duplicate notification")
		return nil
	}

	err = p.email.Send(ctx, clients.EmailRequest{
		To:      record.UserID,
		Subject: record.Title,
		Body:    record.Message,
	})
	status := entities.EmailStatusSent
	if err != nil {
		logger.WithError(err).Error("Failed to send email")
		status = entities.EmailStatusFailed
	}

	if err := p.repo.UpdateEmailStatus(ctx, record.ID, status); err != nil {
		logger.WithError(err).Error("Failed to update email status")
	}

	return nil
}

func (p *Projector) ListUserNotifications(ctx context.Context, userID string) ([]entities.NotificationRecord, error) {
	records, err := p.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return records, nil
}
