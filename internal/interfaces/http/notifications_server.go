package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/internal/entities"
)

type NotificationsService interface {
	ListUserNotifications(ctx context.Context, userID string) ([]entities.NotificationRecord, error)
}

type NotificationsServer struct {
	*Server

	notifications NotificationsService
}

// NewNotificationsServer reports healthy only while the message router
// is running, since the service is useless without its consumers.
func NewNotificationsServer(addr string, notifications NotificationsService, routerRunning func() bool) *NotificationsServer {
	srv := &NotificationsServer{
		Server:        newServer(addr, routerRunning),
		notifications: notifications,
	}

	srv.e.GET("/api/notifications/user/:userId", srv.ListUserNotificationsHandler)

	return srv
}

func (s *NotificationsServer) ListUserNotificationsHandler(c echo.Context) error {
	records, err := s.notifications.ListUserNotifications(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}

	if records == nil {
		records = []entities.NotificationRecord{}
	}
	return c.JSON(http.StatusOK, records)
}
