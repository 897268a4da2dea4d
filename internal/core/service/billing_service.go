package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/core/authz"
	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/rpc"
)

// RecipientLookup resolves the email of an invoice owner for notifications.
// Backed by the user-service client in production.
type RecipientLookup interface {
	RecipientEmail(ctx context.Context, actor rpc.Identity, accountID string) (string, error)
}

// BillingService implements invoice CRUD with the service-side authorization
// policy, mirroring the checks the edge already performed.
type BillingService struct {
	repo       ports.InvoiceRepository
	publisher  ports.EventPublisher
	recipients RecipientLookup
	log        zerolog.Logger
}

func NewBillingService(repo ports.InvoiceRepository, publisher ports.EventPublisher, recipients RecipientLookup, log zerolog.Logger) *BillingService {
	return &BillingService{repo: repo, publisher: publisher, recipients: recipients, log: log}
}

// Create issues a new invoice for an account. Admin only.
func (s *BillingService) Create(ctx context.Context, actor rpc.Identity, accountID, status string, amount int64) (*domain.Invoice, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, fmt.Errorf("%w: user_id es requerido", domain.ErrInvalidInvoice)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: el monto debe ser un número entero positivo", domain.ErrInvalidInvoice)
	}
	if !domain.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: el estado debe ser Pendiente, Pagado o Vencido", domain.ErrInvalidStatus)
	}

	invoice := &domain.Invoice{
		AccountID: accountID,
		Status:    status,
		Amount:    amount,
	}
	return s.repo.Create(ctx, invoice)
}

// Get returns one invoice. Clients may only read their own.
func (s *BillingService) Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Invoice, error) {
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnerOrAdmin(actor, invoice.AccountID); err != nil {
		return nil, err
	}
	return invoice, nil
}

// List returns invoices in the actor's scope. A client is pinned to its own
// invoices; asking for another account's scope is denied rather than
// silently narrowed.
func (s *BillingService) List(ctx context.Context, actor rpc.Identity, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	if err := authz.RequireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if filter.AccountID != "" && filter.AccountID != actor.SubjectID {
			return nil, domain.ErrPermissionDenied
		}
		filter.AccountID = actor.SubjectID
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus transitions an invoice to Pagado or Vencido, stamping the
// payment date on Pagado, then notifies the owner through the event pipeline.
// Admin only.
func (s *BillingService) UpdateStatus(ctx context.Context, actor rpc.Identity, id, status string) (*domain.Invoice, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if status != domain.InvoiceStatusPaid && status != domain.InvoiceStatusOverdue {
		return nil, fmt.Errorf("%w: el estado solo puede ser Pagado o Vencido", domain.ErrInvalidStatus)
	}

	invoice, err := s.repo.UpdateStatus(ctx, id, status, status == domain.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, actor, invoice)
	return invoice, nil
}

// Delete soft-deletes an invoice. Admin only; paid invoices refuse deletion.
func (s *BillingService) Delete(ctx context.Context, actor rpc.Identity, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		return domain.ErrInvoicePaid
	}
	return s.repo.SoftDelete(ctx, id)
}

// publishStatusChanged resolves the owner's email and enqueues the event.
// Both steps are best-effort: the status mutation already committed.
func (s *BillingService) publishStatusChanged(ctx context.Context, actor rpc.Identity, invoice *domain.Invoice) {
	email, err := s.recipients.RecipientEmail(ctx, actor, invoice.AccountID)
	if err != nil {
		s.log.Error().Err(err).
			Str("invoice_id", invoice.ID).
			Str("account_id", invoice.AccountID).
			Msg("failed to resolve notification recipient")
		return
	}

	event := domain.InvoiceStatusChanged{
		ID:             invoice.ID,
		RecipientEmail: email,
		Amount:         invoice.Amount,
		Status:         invoice.Status,
	}
	if err := s.publisher.Publish(ctx, domain.TopicInvoiceStatusChanged, event); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoice.ID).Msg("failed to publish invoice_status_changed")
	}
}
