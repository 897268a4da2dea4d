package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamflow/platform/internal/core/authz"
	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/rpc"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserService implements account CRUD with the service-side authorization
// policy. The actor identity always arrives out-of-band from the RPC layer,
// never from a request payload.
type UserService struct {
	repo      ports.AccountRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

func NewUserService(repo ports.AccountRepository, publisher ports.EventPublisher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, publisher: publisher, log: log}
}

// Create registers an account. Self-registration needs no actor; creating an
// admin account requires an authenticated admin.
func (s *UserService) Create(ctx context.Context, actor rpc.Identity, in ports.CreateAccountInput) (*domain.Account, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: el rol debe ser admin o client", domain.ErrInvalidAccount)
	}
	if role == domain.RoleAdmin {
		if err := authz.RequireRoleAssignment(actor); err != nil {
			return nil, err
		}
	}

	if in.Name == "" || in.Lastname == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: nombre, apellido, email y contraseña son requeridos", domain.ErrInvalidAccount)
	}
	if in.Password != in.ConfirmPassword {
		return nil, fmt.Errorf("%w: las contraseñas no coinciden", domain.ErrInvalidAccount)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:         in.Name,
		Lastname:     in.Lastname,
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.publishAccountCreated(ctx, created)
	return created, nil
}

// Get returns one account. Clients may only read themselves.
func (s *UserService) Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Account, error) {
	if err := authz.RequireOwnerOrAdmin(actor, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// GetCredentials resolves an account by email including its password hash.
// No actor check: this is the internal lookup behind login and admin
// password changes, reachable only on the internal surface.
func (s *UserService) GetCredentials(ctx context.Context, email string) (*domain.Account, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email es requerido", domain.ErrInvalidAccount)
	}
	return s.repo.FindByEmail(ctx, normalizeEmail(email))
}

// List returns accounts matching filter. Admin only.
func (s *UserService) List(ctx context.Context, actor rpc.Identity, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPageLimit {
		filter.Limit = defaultPageLimit
	}
	return s.repo.List(ctx, filter)
}

// Update mutates profile fields. Owners may edit their own profile; touching
// the role field is admin-only regardless of ownership.
func (s *UserService) Update(ctx context.Context, actor rpc.Identity, id string, update domain.AccountUpdate) (*domain.Account, error) {
	if err := authz.RequireOwnerOrAdmin(actor, id); err != nil {
		return nil, err
	}
	if update.Role != nil {
		if err := authz.RequireRoleAssignment(actor); err != nil {
			return nil, err
		}
		if !domain.ValidRole(*update.Role) {
			return nil, fmt.Errorf("%w: el rol debe ser admin o client", domain.ErrInvalidAccount)
		}
	}
	if update.Email != nil {
		normalized := normalizeEmail(*update.Email)
		update.Email = &normalized
	}
	return s.repo.Update(ctx, id, update)
}

// Delete soft-deletes an account. Admin only. The record stays for audit but
// disappears from every lookup and from the email uniqueness constraint.
func (s *UserService) Delete(ctx context.Context, actor rpc.Identity, id string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// ChangePassword replaces the password hash. Admin or owner.
func (s *UserService) ChangePassword(ctx context.Context, actor rpc.Identity, id, newPassword string) error {
	if err := authz.RequireOwnerOrAdmin(actor, id); err != nil {
		return err
	}
	if newPassword == "" {
		return fmt.Errorf("%w: la nueva contraseña es requerida", domain.ErrInvalidAccount)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, id, string(hash))
}

func (s *UserService) publishAccountCreated(ctx context.Context, account *domain.Account) {
	event := domain.AccountCreated{
		ID:    account.ID,
		Email: account.Email,
		Name:  account.Name,
	}
	if err := s.publisher.Publish(ctx, domain.TopicAccountCreated, event); err != nil {
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("failed to publish account_created")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
