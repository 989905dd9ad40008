package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ticketing/internal/entities"
)

// InventoryService owns the ticket ledger behind the event API.
type InventoryService interface {
	CreateEvent(ctx context.Context, req entities.CreateEventRequest) (*entities.Event, error)
	GetEvent(ctx context.Context, eventID string) (*entities.Event, error)
	CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error)
	Reserve(ctx context.Context, eventID string, tickets int) (int, error)
}

type EventsServer struct {
	*Server

	inventory InventoryService
}

func NewEventsServer(addr string, inventory InventoryService) *EventsServer {
	srv := &EventsServer{
		Server:    newServer(addr, nil),
		inventory: inventory,
	}

	srv.e.POST("/api/events", srv.CreateEventHandler)
	srv.e.GET("/api/events/:eventId", srv.GetEventHandler)
	srv.e.GET("/api/events/:eventId/availability", srv.CheckAvailabilityHandler)
	srv.e.POST("/api/events/:eventId/reserve", srv.ReserveHandler)

	return srv
}

func (s *EventsServer) CreateEventHandler(c echo.Context) error {
	var request entities.CreateEventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	event, err := s.inventory.CreateEvent(c.Request().Context(), request)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, event)
}

func (s *EventsServer) GetEventHandler(c echo.Context) error {
	event, err := s.inventory.GetEvent(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (s *EventsServer) CheckAvailabilityHandler(c echo.Context) error {
	tickets, err := strconv.Atoi(c.QueryParam("tickets"))
	if err != nil {
		return entities.NewValidationError("tickets", "must be an integer")
	}

	result, err := s.inventory.CheckAvailability(c.Request().Context(), c.Param("eventId"), tickets)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

type reserveRequest struct {
	Tickets int `json:"tickets"`
}

type reserveResponse struct {
	EventID          string `json:"eventId"`
	RemainingTickets int    `json:"remainingTickets"`
}

func (s *EventsServer) ReserveHandler(c echo.Context) error {
	var request reserveRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	eventID := c.Param("eventId")
	remaining, err := s.inventory.Reserve(c.Request().Context(), eventID, request.Tickets)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reserveResponse{
		EventID:          eventID,
		RemainingTickets: remaining,
	})
}
