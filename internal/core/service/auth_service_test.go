package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/rpc"
)

type stubUserDirectory struct {
	getCredentialsFn func(ctx context.Context, email string) (*domain.Account, error)
	getFn            func(ctx context.Context, actor rpc.Identity, id string) (*domain.Account, error)
	changePasswordFn func(ctx context.Context, actor rpc.Identity, id, newPassword string) error
}

func (s *stubUserDirectory) Create(context.Context, rpc.Identity, ports.CreateAccountInput) (*domain.Account, error) {
	panic("not used")
}

func (s *stubUserDirectory) Get(ctx context.Context, actor rpc.Identity, id string) (*domain.Account, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserDirectory) GetCredentials(ctx context.Context, email string) (*domain.Account, error) {
	return s.getCredentialsFn(ctx, email)
}

func (s *stubUserDirectory) List(context.Context, rpc.Identity, domain.AccountFilter) ([]domain.Account, int64, error) {
	panic("not used")
}

func (s *stubUserDirectory) Update(context.Context, rpc.Identity, string, domain.AccountUpdate) (*domain.Account, error) {
	panic("not used")
}

func (s *stubUserDirectory) Delete(context.Context, rpc.Identity, string) error {
	panic("not used")
}

func (s *stubUserDirectory) ChangePassword(ctx context.Context, actor rpc.Identity, id, newPassword string) error {
	return s.changePasswordFn(ctx, actor, id, newPassword)
}

type stubTokenManager struct {
	issueFn  func(subjectID, role string) (string, error)
	revoked  []string
	verifyFn func(ctx context.Context, token string) (rpc.Identity, error)
}

func (s *stubTokenManager) Issue(subjectID, role string) (string, error) {
	return s.issueFn(subjectID, role)
}

func (s *stubTokenManager) Verify(ctx context.Context, token string) (rpc.Identity, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubTokenManager) Revoke(_ context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestAuthService_Login_Success(t *testing.T) {
	users := &stubUserDirectory{
		getCredentialsFn: func(_ context.Context, email string) (*domain.Account, error) {
			return &domain.Account{ID: "u1", Email: email, Role: domain.RoleClient, PasswordHash: hashOf(t, "secret1")}, nil
		},
	}
	tokens := &stubTokenManager{
		issueFn: func(subjectID, role string) (string, error) {
			if subjectID != "u1" || role != domain.RoleClient {
				t.Fatalf("unexpected claims: %s %s", subjectID, role)
			}
			return "token123", nil
		},
	}
	svc := NewAuthService(users, tokens, zerolog.Nop())

	token, account, err := svc.Login(context.Background(), "u1@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "token123" {
		t.Fatalf("unexpected token: %s", token)
	}
	if account.PasswordHash != "" {
		t.Fatalf("hash must be cleared before the account leaves the service")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	users := &stubUserDirectory{
		getCredentialsFn: func(_ context.Context, email string) (*domain.Account, error) {
			return &domain.Account{ID: "u1", PasswordHash: hashOf(t, "secret1")}, nil
		},
	}
	svc := NewAuthService(users, &stubTokenManager{}, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "u1@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailPropagates(t *testing.T) {
	notFound := rpc.Errorf(rpc.CodeNotFound, "Usuario no encontrado.")
	users := &stubUserDirectory{
		getCredentialsFn: func(context.Context, string) (*domain.Account, error) {
			return nil, notFound
		},
	}
	svc := NewAuthService(users, &stubTokenManager{}, zerolog.Nop())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pwd")
	if rpc.CodeOf(err) != rpc.CodeNotFound {
		t.Fatalf("expected NotFound passthrough, got %v", err)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := NewAuthService(&stubUserDirectory{}, &stubTokenManager{}, zerolog.Nop())

	if _, _, err := svc.Login(context.Background(), "", "pwd"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@example.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	tokens := &stubTokenManager{}
	svc := NewAuthService(&stubUserDirectory{}, tokens, zerolog.Nop())

	if err := svc.Logout(context.Background(), "token123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != "token123" {
		t.Fatalf("token not revoked: %v", tokens.revoked)
	}
}

func TestAuthService_ChangePassword_Targets(t *testing.T) {
	actor := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}

	var gotTarget string
	users := &stubUserDirectory{
		getCredentialsFn: func(_ context.Context, email string) (*domain.Account, error) {
			if email != "target@example.com" {
				t.Fatalf("unexpected lookup: %s", email)
			}
			return &domain.Account{ID: "u9"}, nil
		},
		changePasswordFn: func(_ context.Context, _ rpc.Identity, id, newPassword string) error {
			gotTarget = id
			if newPassword != "newpass1" {
				t.Fatalf("unexpected password: %s", newPassword)
			}
			return nil
		},
	}
	svc := NewAuthService(users, &stubTokenManager{}, zerolog.Nop())

	// Default target is the actor.
	if err := svc.ChangePassword(context.Background(), actor, ports.ChangePasswordInput{NewPassword: "newpass1"}); err != nil {
		t.Fatalf("self change: %v", err)
	}
	if gotTarget != "a1" {
		t.Fatalf("expected self target, got %s", gotTarget)
	}

	// Explicit id wins.
	if err := svc.ChangePassword(context.Background(), actor, ports.ChangePasswordInput{NewPassword: "newpass1", TargetUserID: "u5"}); err != nil {
		t.Fatalf("id change: %v", err)
	}
	if gotTarget != "u5" {
		t.Fatalf("expected u5, got %s", gotTarget)
	}

	// Email resolves through the credentials lookup.
	if err := svc.ChangePassword(context.Background(), actor, ports.ChangePasswordInput{NewPassword: "newpass1", TargetEmail: "target@example.com"}); err != nil {
		t.Fatalf("email change: %v", err)
	}
	if gotTarget != "u9" {
		t.Fatalf("expected u9, got %s", gotTarget)
	}
}

func TestAuthService_ChangePassword_UnknownEmailPropagates(t *testing.T) {
	users := &stubUserDirectory{
		getCredentialsFn: func(context.Context, string) (*domain.Account, error) {
			return nil, rpc.Errorf(rpc.CodeNotFound, "Usuario no encontrado.")
		},
	}
	svc := NewAuthService(users, &stubTokenManager{}, zerolog.Nop())

	actor := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	err := svc.ChangePassword(context.Background(), actor, ports.ChangePasswordInput{NewPassword: "x", TargetEmail: "ghost@example.com"})
	if rpc.CodeOf(err) != rpc.CodeNotFound {
		t.Fatalf("expected NotFound passthrough, got %v", err)
	}
}
