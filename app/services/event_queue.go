package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amirphl/Susanoo/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CreatedQueueKey is the Redis list the intake side pushes creation events to
// and the resolution worker pops from.
const CreatedQueueKey = "susanoo:ads:created"

// CreationEvent is the message published when an advertisement is created
type CreationEvent struct {
	AdvertisementUUID string    `json:"advertisement_uuid"`
	CorrelationID     string    `json:"correlation_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// EventQueue carries advertisement creation events from intake to the
// resolution worker. Delivery is at-least-once; consumers must be idempotent.
type EventQueue interface {
	PublishCreated(ctx context.Context, advertisementUUID string) error

	// ConsumeCreated blocks up to timeout for the next event. It returns
	// (nil, nil) when the timeout elapses with no event.
	ConsumeCreated(ctx context.Context, timeout time.Duration) (*CreationEvent, error)
}

// RedisEventQueue implements EventQueue over a Redis list
type RedisEventQueue struct {
	client *redis.Client
}

// NewRedisEventQueue creates a Redis-backed event queue
func NewRedisEventQueue(client *redis.Client) EventQueue {
	return &RedisEventQueue{client: client}
}

// PublishCreated pushes one creation event onto the queue
func (q *RedisEventQueue) PublishCreated(ctx context.Context, advertisementUUID string) error {
	event := CreationEvent{
		AdvertisementUUID: advertisementUUID,
		CorrelationID:     uuid.New().String(),
		CreatedAt:         utils.UTCNow(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal creation event: %w", err)
	}
	if err := q.client.LPush(ctx, CreatedQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish creation event: %w", err)
	}
	return nil
}

// ConsumeCreated pops the oldest pending creation event
func (q *RedisEventQueue) ConsumeCreated(ctx context.Context, timeout time.Duration) (*CreationEvent, error) {
	result, err := q.client.BRPop(ctx, timeout, CreatedQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to consume creation event: %w", err)
	}
	// BRPOP returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(result))
	}

	var event CreationEvent
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal creation event: %w", err)
	}
	return &event, nil
}

// MockEventQueue implements EventQueue for testing
type MockEventQueue struct {
	mu     sync.Mutex
	events []*CreationEvent

	PublishErr error
}

// NewMockEventQueue creates a mock event queue
func NewMockEventQueue() *MockEventQueue {
	return &MockEventQueue{}
}

func (m *MockEventQueue) PublishCreated(ctx context.Context, advertisementUUID string) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, &CreationEvent{
		AdvertisementUUID: advertisementUUID,
		CorrelationID:     uuid.New().String(),
		CreatedAt:         utils.UTCNow(),
	})
	return nil
}

func (m *MockEventQueue) ConsumeCreated(ctx context.Context, timeout time.Duration) (*CreationEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil, nil
	}
	event := m.events[0]
	m.events = m.events[1:]
	return event, nil
}

// Pending returns the number of undelivered events
func (m *MockEventQueue) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
