package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ticketing/internal/entities"
)

type notificationKey struct {
	bookingID string
	typ       string
}

type NotificationsRepo struct {
	mu      sync.Mutex
	records map[string]entities.NotificationRecord
	keys    map[notificationKey]string
}

func NewNotificationsRepo() *NotificationsRepo {
	return &NotificationsRepo{
		records: make(map[string]entities.NotificationRecord),
		keys:    make(map[notificationKey]string),
	}
}

func (r *NotificationsRepo) Create(_ context.Context, record *entities.NotificationRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := notificationKey{bookingID: record.BookingID, typ: record.Type}
	if _, exists := r.keys[key]; exists {
		return false, nil
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	r.records[record.ID] = *record
	r.keys[key] = record.ID

	return true, nil
}

func (r *NotificationsRepo) UpdateEmailStatus(_ context.Context, id string, status entities.EmailStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return fmt.Errorf("notification %s not found", id)
	}

	record.EmailStatus = status
	record.UpdatedAt = time.Now().UTC()
	r.records[id] = record

	return nil
}

func (r *NotificationsRepo) ListByUser(_ context.Context, userID string) ([]entities.NotificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []entities.NotificationRecord
	for _, record := range r.records {
		if record.UserID == userID {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records, nil
}
