package ports

import (
	"context"

	"github.com/streamflow/platform/internal/core/domain"
)

// AccountRepository is the Credential Store persistence contract. Every
// method excludes soft-deleted rows; uniqueness on email is enforced at write
// time by the store (a concurrent duplicate create resolves to exactly one
// success and domain.ErrEmailTaken for the rest).
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error)
	Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	SoftDelete(ctx context.Context, id string) error
}
