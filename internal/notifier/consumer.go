package notifier

import (
	"context"
	"encoding/json"
	"hash/fnv"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/infrastructure/queue"
	"github.com/streamflow/platform/internal/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Deduper remembers handled event ids across redeliveries.
type Deduper interface {
	IsProcessed(ctx context.Context, topic, eventID string) (bool, error)
	Mark(ctx context.Context, topic, eventID string) error
}

// Consumer drains topic queues through a fixed set of workers, sharded by
// event id so a redelivered event always lands on the same worker. Each
// delivery is acked only after its handler succeeds; handler failures are
// nacked back onto the queue.
type Consumer struct {
	workers  []chan amqp.Delivery
	handlers map[string]Handler
	dedup    Deduper
	log      zerolog.Logger
}

// NewConsumer creates a Consumer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewConsumer(numWorkers int, dedup Deduper, log zerolog.Logger) *Consumer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &Consumer{
		workers:  make([]chan amqp.Delivery, numWorkers),
		handlers: make(map[string]Handler),
		dedup:    dedup,
		log:      log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan amqp.Delivery, channelBuffer)
	}
	return c
}

// Register binds a handler to a topic. Must be called before Start.
func (c *Consumer) Register(topic string, handler Handler) {
	c.handlers[topic] = handler
}

// Start opens a delivery stream per registered topic and launches the worker
// goroutines. Workers stop when ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, client *queue.Client) error {
	for topic := range c.handlers {
		deliveries, err := client.Consume(topic)
		if err != nil {
			return err
		}
		go c.pump(ctx, deliveries)
	}
	for i, ch := range c.workers {
		go c.runWorker(ctx, i, ch)
	}
	return nil
}

// pump shards raw deliveries onto workers by message id. Undecodable bodies
// are rejected without requeue; redelivering them can never succeed.
func (c *Consumer) pump(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			c.workers[c.shardIndex(shardKey(d))] <- d
		}
	}
}

// shardKey extracts the envelope id without fully decoding the payload.
func shardKey(d amqp.Delivery) string {
	var probe struct {
		ID string `json:"event_id"`
	}
	if err := json.Unmarshal(d.Body, &probe); err != nil || probe.ID == "" {
		return d.RoutingKey
	}
	return probe.ID
}

func (c *Consumer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(c.workers)
}

func (c *Consumer) runWorker(ctx context.Context, id int, ch <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-ch:
			if !ok {
				return
			}
			c.handle(ctx, id, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, workerID int, d amqp.Delivery) {
	var env queue.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		metrics.EventsConsumedTotal.WithLabelValues(d.RoutingKey, "decode_error").Inc()
		c.log.Error().Err(err).
			Str("queue", d.RoutingKey).
			Int("worker_id", workerID).
			Msg("undecodable event dropped")
		_ = d.Reject(false)
		return
	}

	handler, ok := c.handlers[env.Topic]
	if !ok {
		metrics.EventsConsumedTotal.WithLabelValues(env.Topic, "unknown_topic").Inc()
		c.log.Warn().
			Str("topic", env.Topic).
			Str("event_id", env.ID).
			Msg("no handler for topic")
		_ = d.Reject(false)
		return
	}

	done, err := c.dedup.IsProcessed(ctx, env.Topic, env.ID)
	if err != nil {
		// Dedup store down. Processing anyway keeps at-least-once alive.
		c.log.Warn().Err(err).Str("event_id", env.ID).Msg("dedup check failed")
	}
	if done {
		metrics.EventsConsumedTotal.WithLabelValues(env.Topic, "duplicate").Inc()
		c.log.Debug().
			Str("topic", env.Topic).
			Str("event_id", env.ID).
			Msg("duplicate event skipped")
		_ = d.Ack(false)
		return
	}

	if err := handler(ctx, env); err != nil {
		metrics.EventsConsumedTotal.WithLabelValues(env.Topic, "error").Inc()
		c.log.Error().Err(err).
			Str("topic", env.Topic).
			Str("event_id", env.ID).
			Int("worker_id", workerID).
			Msg("event handling failed")
		_ = d.Nack(false, true)
		return
	}

	if err := c.dedup.Mark(ctx, env.Topic, env.ID); err != nil {
		c.log.Warn().Err(err).Str("event_id", env.ID).Msg("dedup mark failed")
	}

	metrics.EventsConsumedTotal.WithLabelValues(env.Topic, "ok").Inc()
	_ = d.Ack(false)
}
