package ports

import (
	"context"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

// ChangePasswordInput targets the actor's own account unless an admin names
// another account by id or email.
type ChangePasswordInput struct {
	NewPassword  string
	TargetUserID string
	TargetEmail  string
}

// AuthService drives the gateway auth endpoints.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, actor rpc.Identity) (*domain.Account, error)
	ChangePassword(ctx context.Context, actor rpc.Identity, in ChangePasswordInput) error
}
