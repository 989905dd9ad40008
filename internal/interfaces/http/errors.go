package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticketing/internal/entities"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errorHandler translates domain errors into HTTP statuses, so handlers
// can return them untouched.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal server error"

	var validationErr *entities.ValidationError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
		msg = validationErr.Error()
	case errors.Is(err, entities.ErrInsufficientInventory):
		status = http.StatusBadRequest
		msg = entities.ErrInsufficientInventory.Error()
	case errors.Is(err, entities.ErrAlreadyCancelled):
		status = http.StatusBadRequest
		msg = entities.ErrAlreadyCancelled.Error()
	case errors.Is(err, entities.ErrPaymentFailed):
		status = http.StatusPaymentRequired
		msg = entities.ErrPaymentFailed.Error()
	case errors.Is(err, entities.ErrInventoryRaceLost):
		status = http.StatusConflict
		msg = entities.ErrInventoryRaceLost.Error()
	case errors.Is(err, entities.ErrBookingNotFound):
		status = http.StatusNotFound
		msg = entities.ErrBookingNotFound.Error()
	case errors.Is(err, entities.ErrEventNotFound):
		status = http.StatusNotFound
		msg = entities.ErrEventNotFound.Error()
	case errors.As(err, &echoErr):
		status = echoErr.Code
		if s, ok := echoErr.Message.(string); ok {
			msg = s
		}
	}

	_ = c.JSON(status, errorResponse{Error: msg})
}
