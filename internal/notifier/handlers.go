package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/infrastructure/queue"
)

// Handler processes one decoded envelope. Returning an error causes the
// delivery to be requeued.
type Handler func(ctx context.Context, env queue.Envelope) error

// AccountCreatedHandler sends the welcome email for every new account.
func AccountCreatedHandler(mailer Mailer) Handler {
	return func(ctx context.Context, env queue.Envelope) error {
		var payload domain.AccountCreated
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", env.Topic, err)
		}
		if payload.Email == "" {
			return fmt.Errorf("event %s: missing recipient", env.ID)
		}

		subject := "Bienvenido a StreamFlow"
		body := fmt.Sprintf("Hola %s, tu cuenta ha sido creada exitosamente.", payload.Name)
		return mailer.Send(ctx, payload.Email, subject, body)
	}
}

// InvoiceStatusChangedHandler notifies the invoice owner of the new status.
func InvoiceStatusChangedHandler(mailer Mailer) Handler {
	return func(ctx context.Context, env queue.Envelope) error {
		var payload domain.InvoiceStatusChanged
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s: %w", env.Topic, err)
		}
		if payload.RecipientEmail == "" {
			return fmt.Errorf("event %s: missing recipient", env.ID)
		}

		subject := fmt.Sprintf("Tu factura %s está %s", payload.ID, payload.Status)
		body := fmt.Sprintf(
			"El estado de tu factura %s por $%d ha cambiado a %s.",
			payload.ID, payload.Amount, payload.Status,
		)
		return mailer.Send(ctx, payload.RecipientEmail, subject, body)
	}
}
