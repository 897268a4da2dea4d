package ports

import (
	"context"

	"github.com/streamflow/platform/internal/core/domain"
)

// InvoiceRepository persists invoices. Soft-deleted invoices are invisible to
// every method.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	FindByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error)
	UpdateStatus(ctx context.Context, id, status string, markPaid bool) (*domain.Invoice, error)
	SoftDelete(ctx context.Context, id string) error
}
