package ports

import (
	"context"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

// CreateAccountInput carries everything needed to create an account. The
// password travels in clear only between gateway and user service; it is
// hashed before persistence.
type CreateAccountInput struct {
	Name            string
	Lastname        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            string
}

// UserDirectory is the gateway-side view of the user service, implemented by
// the internal RPC client. The actor identity travels out-of-band on every
// call.
type UserDirectory interface {
	Create(ctx context.Context, actor rpc.Identity, in CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Account, error)
	// GetCredentials resolves an account by email including its password
	// hash. Internal surface only: used for login and for admin password
	// changes targeted by email.
	GetCredentials(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, actor rpc.Identity, filter domain.AccountFilter) ([]domain.Account, int64, error)
	Update(ctx context.Context, actor rpc.Identity, id string, update domain.AccountUpdate) (*domain.Account, error)
	Delete(ctx context.Context, actor rpc.Identity, id string) error
	ChangePassword(ctx context.Context, actor rpc.Identity, id, newPassword string) error
}

// BillingDirectory is the gateway-side view of the billing service.
type BillingDirectory interface {
	Create(ctx context.Context, actor rpc.Identity, accountID, status string, amount int64) (*domain.Invoice, error)
	Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Invoice, error)
	List(ctx context.Context, actor rpc.Identity, filter domain.InvoiceFilter) ([]domain.Invoice, error)
	UpdateStatus(ctx context.Context, actor rpc.Identity, id, status string) (*domain.Invoice, error)
	Delete(ctx context.Context, actor rpc.Identity, id string) error
}
