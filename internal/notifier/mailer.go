// Package notifier consumes platform events and turns them into outbound
// notifications. One worker pool drains both topic queues; handled event ids
// are remembered so redeliveries do not repeat a send.
package notifier

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer delivers one notification to a recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes every notification to the structured log instead of an
// SMTP relay. Stands in for a real provider in every environment that has
// none configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("email sent")
	return nil
}
