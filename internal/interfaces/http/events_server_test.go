package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/application/usecases/inventory"
	"ticketing/internal/entities"
	"ticketing/internal/repository/memory"
)

func newEventsTestServer(t *testing.T) (*EventsServer, string) {
	t.Helper()

	srv := NewEventsServer(":0", inventory.NewService(memory.NewInventoryRepo()))

	body := `{"title":"Go Conference","price":50,"totalTickets":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var event entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	require.NotEmpty(t, event.ID)

	return srv, event.ID
}

func (s *EventsServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestEventsServer_AvailabilityAndReserve(t *testing.T) {
	srv, eventID := newEventsTestServer(t)

	rec := srv.do(http.MethodGet, "/api/events/"+eventID+"/availability?tickets=3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var availability entities.AvailabilityResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &availability))
	assert.True(t, availability.IsAvailable)
	assert.Equal(t, 10, availability.AvailableTickets)

	rec = srv.do(http.MethodPost, "/api/events/"+eventID+"/reserve", `{"tickets":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reserved struct {
		EventID          string `json:"eventId"`
		RemainingTickets int    `json:"remainingTickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reserved))
	assert.Equal(t, eventID, reserved.EventID)
	assert.Equal(t, 7, reserved.RemainingTickets)
}

func TestEventsServer_ReserveTooMany(t *testing.T) {
	srv, eventID := newEventsTestServer(t)

	rec := srv.do(http.MethodPost, "/api/events/"+eventID+"/reserve", `{"tickets":11}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Failed reserve leaves the count alone.
	rec = srv.do(http.MethodGet, "/api/events/"+eventID+"/availability?tickets=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var availability entities.AvailabilityResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &availability))
	assert.Equal(t, 10, availability.AvailableTickets)
}

func TestEventsServer_UnknownEvent(t *testing.T) {
	srv, _ := newEventsTestServer(t)

	rec := srv.do(http.MethodGet, "/api/events/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(http.MethodPost, "/api/events/missing/reserve", `{"tickets":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsServer_CreateEventValidation(t *testing.T) {
	srv, _ := newEventsTestServer(t)

	rec := srv.do(http.MethodPost, "/api/events", `{"title":"","price":10,"totalTickets":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventsServer_AvailabilityRequiresIntegerTickets(t *testing.T) {
	srv, eventID := newEventsTestServer(t)

	rec := srv.do(http.MethodGet, "/api/events/"+eventID+"/availability?tickets=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
