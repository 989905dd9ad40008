package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"ticketing/internal/entities"
)

// EventsClient talks to the event service, which owns the inventory
// ledger. Transport failures trip a circuit breaker; business responses
// (404, insufficient stock) pass through untouched so they never open
// the circuit.
type EventsClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewEventsClient(baseURL string) *EventsClient {
	return &EventsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "event-service",
			Timeout: 15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type httpResult struct {
	status int
	body   []byte
}

func (c *EventsClient) do(ctx context.Context, method, url string, payload any) (*httpResult, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		var body io.Reader
		if payload != nil {
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request: %w", err)
			}
			body = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("event service request failed: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("event service returned %s", resp.Status)
		}

		return &httpResult{status: resp.StatusCode, body: raw}, nil
	})
	if err != nil {
		return nil, err
	}

	return res.(*httpResult), nil
}

func (c *EventsClient) CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error) {
	url := fmt.Sprintf("%s/api/events/%s/availability?tickets=%d", c.baseURL, eventID, tickets)

	res, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, entities.ErrEventNotFound
	default:
		return nil, fmt.Errorf("unexpected availability response: %d", res.status)
	}

	var result entities.AvailabilityResult
	if err := json.Unmarshal(res.body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal availability: %w", err)
	}

	return &result, nil
}

func (c *EventsClient) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	url := fmt.Sprintf("%s/api/events/%s", c.baseURL, eventID)

	res, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, entities.ErrEventNotFound
	default:
		return nil, fmt.Errorf("unexpected event response: %d", res.status)
	}

	var event entities.Event
	if err := json.Unmarshal(res.body, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

type reserveRequest struct {
	Tickets int `json:"tickets"`
}

type reserveResponse struct {
	RemainingTickets int `json:"remainingTickets"`
}

func (c *EventsClient) Reserve(ctx context.Context, eventID string, tickets int) (int, error) {
	url := fmt.Sprintf("%s/api/events/%s/reserve", c.baseURL, eventID)

	res, err := c.do(ctx, http.MethodPost, url, reserveRequest{Tickets: tickets})
	if err != nil {
		return 0, err
	}

	switch res.status {
	case http.StatusOK:
	case http.StatusBadRequest:
		return 0, entities.ErrInsufficientInventory
	case http.StatusNotFound:
		return 0, entities.ErrEventNotFound
	default:
		return 0, fmt.Errorf("unexpected reserve response: %d", res.status)
	}

	var result reserveResponse
	if err := json.Unmarshal(res.body, &result); err != nil {
		return 0, fmt.Errorf("failed to unmarshal reserve response: %w", err)
	}

	return result.RemainingTickets, nil
}
