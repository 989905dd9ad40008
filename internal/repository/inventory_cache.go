package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ticketing/internal/entities"
	"ticketing/internal/log"
)

// InventoryCache decorates an inventory ledger with a short-lived Redis
// cache for availability reads. Availability is a non-binding hint, so
// serving a slightly stale count is acceptable; Reserve always goes to
// the ledger and drops the cached entry.
type InventoryCache struct {
	inner *InventoryRepo
	rdb   *redis.Client
	ttl   time.Duration
}

func NewInventoryCache(inner *InventoryRepo, rdb *redis.Client, ttl time.Duration) *InventoryCache {
	return &InventoryCache{inner: inner, rdb: rdb, ttl: ttl}
}

func availabilityKey(eventID string) string {
	return "inventory:availability:" + eventID
}

func (c *InventoryCache) CreateEvent(ctx context.Context, event *entities.Event) error {
	return c.inner.CreateEvent(ctx, event)
}

func (c *InventoryCache) GetEvent(ctx context.Context, eventID string) (*entities.Event, error) {
	return c.inner.GetEvent(ctx, eventID)
}

func (c *InventoryCache) CheckAvailability(ctx context.Context, eventID string, tickets int) (*entities.AvailabilityResult, error) {
	key := availabilityKey(eventID)

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var available int
		if err := json.Unmarshal([]byte(cached), &available); err == nil {
			return &entities.AvailabilityResult{
				EventID:          eventID,
				AvailableTickets: available,
				RequestedTickets: tickets,
				IsAvailable:      available >= tickets,
			}, nil
		}
	}

	result, err := c.inner.CheckAvailability(ctx, eventID, tickets)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result.AvailableTickets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal availability: %w", err)
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		// cache trouble must not break reads
		log.FromContext(ctx).WithError(err).Warn("failed to cache availability")
	}

	return result, nil
}

func (c *InventoryCache) Reserve(ctx context.Context, eventID string, tickets int) (int, error) {
	remaining, err := c.inner.Reserve(ctx, eventID, tickets)
	if err != nil {
		return 0, err
	}

	if err := c.rdb.Del(ctx, availabilityKey(eventID)).Err(); err != nil {
		log.FromContext(ctx).WithError(err).Warn("failed to invalidate availability cache")
	}

	return remaining, nil
}
