package ports

import "context"

// EventPublisher enqueues a domain event on a named topic. Publication is a
// side channel: callers log a returned error and continue, never rolling back
// the state mutation that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}
