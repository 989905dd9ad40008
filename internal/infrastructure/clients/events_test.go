package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing/internal/entities"
)

func newEventServiceStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/events/event-1/availability", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entities.AvailabilityResult{
			EventID:          "event-1",
			AvailableTickets: 7,
			RequestedTickets: 3,
			IsAvailable:      true,
		})
	})
	mux.HandleFunc("GET /api/events/event-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entities.Event{
			ID:               "event-1",
			Title:            "Go Conference",
			Price:            50,
			TotalTickets:     10,
			AvailableTickets: 7,
		})
	})
	mux.HandleFunc("POST /api/events/event-1/reserve", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Tickets int `json:"tickets"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body.Tickets > 7 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"remainingTickets": 7 - body.Tickets})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestEventsClient_CheckAvailability(t *testing.T) {
	server := newEventServiceStub(t)
	client := NewEventsClient(server.URL)

	result, err := client.CheckAvailability(context.Background(), "event-1", 3)
	require.NoError(t, err)
	assert.True(t, result.IsAvailable)
	assert.Equal(t, 7, result.AvailableTickets)
}

func TestEventsClient_GetEvent(t *testing.T) {
	server := newEventServiceStub(t)
	client := NewEventsClient(server.URL)

	event, err := client.GetEvent(context.Background(), "event-1")
	require.NoError(t, err)
	assert.Equal(t, "Go Conference", event.Title)
	assert.Equal(t, 50.0, event.Price)
}

func TestEventsClient_Reserve(t *testing.T) {
	server := newEventServiceStub(t)
	client := NewEventsClient(server.URL)

	remaining, err := client.Reserve(context.Background(), "event-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestEventsClient_ReserveInsufficient(t *testing.T) {
	server := newEventServiceStub(t)
	client := NewEventsClient(server.URL)

	_, err := client.Reserve(context.Background(), "event-1", 8)
	require.ErrorIs(t, err, entities.ErrInsufficientInventory)
}

func TestEventsClient_UnknownEvent(t *testing.T) {
	server := newEventServiceStub(t)
	client := NewEventsClient(server.URL)

	_, err := client.GetEvent(context.Background(), "missing")
	require.ErrorIs(t, err, entities.ErrEventNotFound)

	_, err = client.Reserve(context.Background(), "missing", 1)
	require.ErrorIs(t, err, entities.ErrEventNotFound)
}

func TestEventsClient_BusinessErrorsDoNotTripBreaker(t *testing.T) {
	server := newEventServiceStub(t)
	client := NewEventsClient(server.URL)

	// Far more business failures than the breaker's trip threshold.
	for i := 0; i < 10; i++ {
		_, err := client.GetEvent(context.Background(), "missing")
		require.ErrorIs(t, err, entities.ErrEventNotFound)
	}

	_, err := client.GetEvent(context.Background(), "event-1")
	require.NoError(t, err, "circuit must still be closed")
}
