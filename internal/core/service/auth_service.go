package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/rpc"
)

// AuthService orchestrates the gateway auth endpoints: it resolves
// credentials through the user service, compares the password hash, and
// delegates the token lifecycle to the TokenManager. The gateway is the only
// token-issuing and token-verifying component in the platform.
type AuthService struct {
	users  ports.UserDirectory
	tokens ports.TokenManager
	log    zerolog.Logger
}

func NewAuthService(users ports.UserDirectory, tokens ports.TokenManager, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login authenticates email+password and issues a session token. An unknown
// email propagates the user service's NotFound; a wrong password yields
// ErrInvalidCredentials. The two stay distinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	account, err := s.users.GetCredentials(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return "", nil, err
	}

	account.PasswordHash = ""
	return token, account, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Profile returns the actor's own account, freshly read from the user
// service so a concurrent soft delete is visible immediately.
func (s *AuthService) Profile(ctx context.Context, actor rpc.Identity) (*domain.Account, error) {
	return s.users.Get(ctx, actor, actor.SubjectID)
}

// ChangePassword targets the actor's own account, or another account when an
// admin names it by id or email. A failed email lookup yields the user
// service's NotFound, never an unrelated failure. The user service
// independently re-checks that the actor may touch the target.
func (s *AuthService) ChangePassword(ctx context.Context, actor rpc.Identity, in ports.ChangePasswordInput) error {
	targetID := actor.SubjectID

	switch {
	case in.TargetUserID != "":
		targetID = in.TargetUserID
	case in.TargetEmail != "":
		target, err := s.users.GetCredentials(ctx, in.TargetEmail)
		if err != nil {
			return err
		}
		targetID = target.ID
	}

	return s.users.ChangePassword(ctx, actor, targetID, in.NewPassword)
}
