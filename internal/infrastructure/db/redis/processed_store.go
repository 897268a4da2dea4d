package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const processedTTL = 24 * time.Hour

// ProcessedStore tracks handled event ids for the notification consumer.
// At-least-once delivery means redeliveries happen; this store turns a
// duplicate send into a skip. Losing a record only degrades back to
// at-least-once. Key format: processed:<topic>:<event_id>
type ProcessedStore struct {
	client *redis.Client
}

func NewProcessedStore(client *redis.Client) *ProcessedStore {
	return &ProcessedStore{client: client}
}

// IsProcessed reports whether this event was already handled.
func (s *ProcessedStore) IsProcessed(ctx context.Context, topic, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(topic, eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("processed check: %w", err)
	}
	return n > 0, nil
}

// Mark records the event as handled (expires after processedTTL).
func (s *ProcessedStore) Mark(ctx context.Context, topic, eventID string) error {
	return s.client.Set(ctx, s.key(topic, eventID), "1", processedTTL).Err()
}

func (s *ProcessedStore) key(topic, eventID string) string {
	return fmt.Sprintf("processed:%s:%s", topic, eventID)
}
