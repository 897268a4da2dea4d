// Package queue implements the event notification pipeline on RabbitMQ:
// durable queues named after topics, persistent messages, manual
// acknowledgement after the handler completes.
package queue

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client wraps one AMQP connection and channel. AMQP channels are not safe
// for concurrent publishing, so Publish serializes on a mutex; consumption
// gets its own delivery channel per queue.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// Connect dials the broker and opens a channel.
func Connect(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	return &Client{conn: conn, ch: ch}, nil
}

// Close releases the channel and connection.
func (c *Client) Close() error {
	if err := c.ch.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

// DeclareQueue creates the durable queue for a topic. Declaration is
// idempotent on the broker side; it survives broker restarts.
func (c *Client) DeclareQueue(topic string) error {
	_, err := c.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	return err
}

// Publish enqueues a persistent message on the topic queue.
func (c *Client) Publish(ctx context.Context, topic string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ch.PublishWithContext(ctx,
		"",    // default exchange
		topic, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Consume opens a manual-ack delivery stream for the topic queue. The caller
// owns acknowledgement: an unacked delivery is redelivered after a consumer
// restart, which is what gives the pipeline its at-least-once guarantee.
func (c *Client) Consume(topic string) (<-chan amqp.Delivery, error) {
	if err := c.DeclareQueue(topic); err != nil {
		return nil, fmt.Errorf("declare %s: %w", topic, err)
	}
	deliveries, err := c.ch.Consume(
		topic,
		"",    // consumer tag
		false, // auto-ack off: ack only after the handler succeeds
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", topic, err)
	}
	return deliveries, nil
}
