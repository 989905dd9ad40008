package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"ticketing/internal/entities"
)

// NotificationsProjector is the use case behind the notification
// handlers.
type NotificationsProjector interface {
	HandleBookingConfirmed(ctx context.Context, event *entities.BookingConfirmed) error
	HandleBookingCancelled(ctx context.Context, event *entities.BookingCancelled) error
}

type Handler struct {
	projector NotificationsProjector
}

func NewHandler(projector NotificationsProjector) *Handler {
	return &Handler{projector: projector}
}

func (h *Handler) BookingConfirmedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"notifications.on_booking_confirmed",
		h.projector.HandleBookingConfirmed,
	)
}

func (h *Handler) BookingCancelledHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"notifications.on_booking_cancelled",
		h.projector.HandleBookingCancelled,
	)
}
