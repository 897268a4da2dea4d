package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/metrics"
)

// Publisher implements ports.EventPublisher. Queues are declared lazily, once
// per topic. Publish failures surface to the caller, who logs and continues:
// events are a side channel, never part of the transactional boundary.
type Publisher struct {
	client   *Client
	log      zerolog.Logger
	declared sync.Map // topic -> struct{}
}

func NewPublisher(client *Client, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, log: log}
}

// Publish wraps payload in an envelope and enqueues it durably on topic.
func (p *Publisher) Publish(ctx context.Context, topic string, payload any) error {
	if _, ok := p.declared.Load(topic); !ok {
		if err := p.client.DeclareQueue(topic); err != nil {
			metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
			return fmt.Errorf("declare %s: %w", topic, err)
		}
		p.declared.Store(topic, struct{}{})
	}

	envelope, err := NewEnvelope(topic, payload)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("encode event: %w", err)
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("encode envelope: %w", err)
	}

	if err := p.client.Publish(ctx, topic, body); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(topic, "ok").Inc()
	p.log.Debug().Str("topic", topic).Str("event_id", envelope.ID).Msg("event published")
	return nil
}
