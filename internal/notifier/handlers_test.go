package notifier

import (
	"context"
	"strings"
	"testing"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/infrastructure/queue"
)

type capturingMailer struct {
	to, subject, body string
}

func (m *capturingMailer) Send(_ context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func envelopeFor(t *testing.T, topic string, payload any) queue.Envelope {
	t.Helper()
	env, err := queue.NewEnvelope(topic, payload)
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}
	return env
}

func TestAccountCreatedHandler(t *testing.T) {
	mailer := &capturingMailer{}
	handler := AccountCreatedHandler(mailer)

	env := envelopeFor(t, domain.TopicAccountCreated, domain.AccountCreated{
		ID: "u1", Email: "ana@example.com", Name: "Ana",
	})
	if err := handler(context.Background(), env); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if mailer.to != "ana@example.com" {
		t.Fatalf("unexpected recipient: %s", mailer.to)
	}
	if !strings.Contains(mailer.body, "Ana") {
		t.Fatalf("body does not greet the user: %s", mailer.body)
	}
}

func TestAccountCreatedHandler_MissingRecipient(t *testing.T) {
	handler := AccountCreatedHandler(&capturingMailer{})

	env := envelopeFor(t, domain.TopicAccountCreated, domain.AccountCreated{ID: "u1"})
	if err := handler(context.Background(), env); err == nil {
		t.Fatalf("expected an error without a recipient")
	}
}

func TestInvoiceStatusChangedHandler(t *testing.T) {
	mailer := &capturingMailer{}
	handler := InvoiceStatusChangedHandler(mailer)

	env := envelopeFor(t, domain.TopicInvoiceStatusChanged, domain.InvoiceStatusChanged{
		ID: "inv_1", RecipientEmail: "ana@example.com", Amount: 250, Status: domain.InvoiceStatusPaid,
	})
	if err := handler(context.Background(), env); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if mailer.to != "ana@example.com" {
		t.Fatalf("unexpected recipient: %s", mailer.to)
	}
	if !strings.Contains(mailer.subject, "Pagado") || !strings.Contains(mailer.body, "250") {
		t.Fatalf("notification missing status or amount: %s / %s", mailer.subject, mailer.body)
	}
}

func TestInvoiceStatusChangedHandler_BadPayload(t *testing.T) {
	handler := InvoiceStatusChangedHandler(&capturingMailer{})

	env := queue.Envelope{ID: "e1", Topic: domain.TopicInvoiceStatusChanged, Payload: []byte("not-json")}
	if err := handler(context.Background(), env); err == nil {
		t.Fatalf("expected a decode error")
	}
}
