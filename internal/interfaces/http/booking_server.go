package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/internal/entities"
)

// BookingService is the saga orchestrator as the booking API sees it.
type BookingService interface {
	CreateBooking(ctx context.Context, req entities.CreateBookingRequest) (*entities.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*entities.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*entities.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]entities.Booking, error)
}

type BookingServer struct {
	*Server

	bookings BookingService
}

func NewBookingServer(addr string, bookings BookingService) *BookingServer {
	srv := &BookingServer{
		Server:   newServer(addr, nil),
		bookings: bookings,
	}

	srv.e.POST("/api/bookings", srv.CreateBookingHandler)
	srv.e.POST("/api/bookings/:bookingId/cancel", srv.CancelBookingHandler)
	srv.e.GET("/api/bookings/:bookingId", srv.GetBookingHandler)
	srv.e.GET("/api/bookings/user/:userId", srv.ListUserBookingsHandler)

	return srv
}

func (s *BookingServer) CreateBookingHandler(c echo.Context) error {
	var request entities.CreateBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	booking, err := s.bookings.CreateBooking(c.Request().Context(), request)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, booking)
}

func (s *BookingServer) CancelBookingHandler(c echo.Context) error {
	booking, err := s.bookings.Cancel(c.Request().Context(), c.Param("bookingId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (s *BookingServer) GetBookingHandler(c echo.Context) error {
	booking, err := s.bookings.GetBooking(c.Request().Context(), c.Param("bookingId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (s *BookingServer) ListUserBookingsHandler(c echo.Context) error {
	bookings, err := s.bookings.ListUserBookings(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}

	if bookings == nil {
		bookings = []entities.Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}
