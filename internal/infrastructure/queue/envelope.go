package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps every published event with a broker-independent identity.
// The event id is the consumer-side deduplication key.
type Envelope struct {
	ID         string          `json:"event_id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload for publication on topic.
func NewEnvelope(topic string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         uuid.NewString(),
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}
