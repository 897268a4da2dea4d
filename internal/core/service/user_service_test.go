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

type stubAccountRepo struct {
	createFn         func(ctx context.Context, account *domain.Account) (*domain.Account, error)
	findByIDFn       func(ctx context.Context, id string) (*domain.Account, error)
	findByEmailFn    func(ctx context.Context, email string) (*domain.Account, error)
	listFn           func(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error)
	updateFn         func(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error)
	updateHashFn     func(ctx context.Context, id, hash string) error
	softDeleteFn     func(ctx context.Context, id string) error
	softDeleteCalled bool
}

func (s *stubAccountRepo) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return s.createFn(ctx, account)
}

func (s *stubAccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.findByEmailFn(ctx, email)
}

func (s *stubAccountRepo) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *stubAccountRepo) Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
	return s.updateFn(ctx, id, update)
}

func (s *stubAccountRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return s.updateHashFn(ctx, id, hash)
}

func (s *stubAccountRepo) SoftDelete(ctx context.Context, id string) error {
	s.softDeleteCalled = true
	if s.softDeleteFn != nil {
		return s.softDeleteFn(ctx, id)
	}
	return nil
}

type stubPublisher struct {
	topics   []string
	payloads []any
	err      error
}

func (s *stubPublisher) Publish(_ context.Context, topic string, payload any) error {
	s.topics = append(s.topics, topic)
	s.payloads = append(s.payloads, payload)
	return s.err
}

func validCreateInput() ports.CreateAccountInput {
	return ports.CreateAccountInput{
		Name:            "Ana",
		Lastname:        "García",
		Email:           "Ana@Example.COM",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestUserService_Create_DefaultsToClient(t *testing.T) {
	pub := &stubPublisher{}
	repo := &stubAccountRepo{
		createFn: func(_ context.Context, account *domain.Account) (*domain.Account, error) {
			if account.Role != domain.RoleClient {
				t.Fatalf("expected client role, got %s", account.Role)
			}
			if account.Email != "ana@example.com" {
				t.Fatalf("email not normalized: %s", account.Email)
			}
			if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret1")); err != nil {
				t.Fatalf("password not hashed with bcrypt: %v", err)
			}
			account.ID = "user_1"
			return account, nil
		},
	}
	svc := NewUserService(repo, pub, zerolog.Nop())

	created, err := svc.Create(context.Background(), rpc.Identity{}, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "user_1" {
		t.Fatalf("unexpected id: %s", created.ID)
	}

	if len(pub.topics) != 1 || pub.topics[0] != domain.TopicAccountCreated {
		t.Fatalf("expected account_created publication, got %v", pub.topics)
	}
	event, ok := pub.payloads[0].(domain.AccountCreated)
	if !ok || event.Email != "ana@example.com" {
		t.Fatalf("unexpected event payload: %+v", pub.payloads[0])
	}
}

func TestUserService_Create_AdminRoleNeedsAdminActor(t *testing.T) {
	repo := &stubAccountRepo{
		createFn: func(_ context.Context, account *domain.Account) (*domain.Account, error) {
			return account, nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	in := validCreateInput()
	in.Role = domain.RoleAdmin

	if _, err := svc.Create(context.Background(), rpc.Identity{}, in); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("anonymous admin create: expected ErrUnauthenticated, got %v", err)
	}

	clientActor := rpc.Identity{SubjectID: "c1", Role: domain.RoleClient}
	if _, err := svc.Create(context.Background(), clientActor, in); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("client admin create: expected ErrPermissionDenied, got %v", err)
	}

	adminActor := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	if _, err := svc.Create(context.Background(), adminActor, in); err != nil {
		t.Fatalf("admin create: %v", err)
	}
}

func TestUserService_Create_PasswordMismatch(t *testing.T) {
	svc := NewUserService(&stubAccountRepo{}, &stubPublisher{}, zerolog.Nop())

	in := validCreateInput()
	in.ConfirmPassword = "different"

	if _, err := svc.Create(context.Background(), rpc.Identity{}, in); !errors.Is(err, domain.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestUserService_Create_PublishFailureDoesNotFailCreate(t *testing.T) {
	repo := &stubAccountRepo{
		createFn: func(_ context.Context, account *domain.Account) (*domain.Account, error) {
			return account, nil
		},
	}
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := NewUserService(repo, pub, zerolog.Nop())

	if _, err := svc.Create(context.Background(), rpc.Identity{}, validCreateInput()); err != nil {
		t.Fatalf("create should survive publish failure, got %v", err)
	}
}

func TestUserService_Get_OwnerOrAdmin(t *testing.T) {
	repo := &stubAccountRepo{
		findByIDFn: func(_ context.Context, id string) (*domain.Account, error) {
			return &domain.Account{ID: id}, nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	owner := rpc.Identity{SubjectID: "u1", Role: domain.RoleClient}
	if _, err := svc.Get(context.Background(), owner, "u1"); err != nil {
		t.Fatalf("owner get: %v", err)
	}

	if _, err := svc.Get(context.Background(), owner, "u2"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("foreign get: expected ErrPermissionDenied, got %v", err)
	}

	admin := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	if _, err := svc.Get(context.Background(), admin, "u1"); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestUserService_List_AdminOnlyAndBoundedPaging(t *testing.T) {
	repo := &stubAccountRepo{
		listFn: func(_ context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
			if filter.Page != 1 || filter.Limit != defaultPageLimit {
				t.Fatalf("paging not defaulted: %+v", filter)
			}
			return nil, 0, nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	client := rpc.Identity{SubjectID: "u1", Role: domain.RoleClient}
	if _, _, err := svc.List(context.Background(), client, domain.AccountFilter{}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("client list: expected ErrPermissionDenied, got %v", err)
	}

	admin := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	if _, _, err := svc.List(context.Background(), admin, domain.AccountFilter{Limit: 9999}); err != nil {
		t.Fatalf("admin list: %v", err)
	}
}

func TestUserService_Update_RoleChangeIsAdminOnly(t *testing.T) {
	repo := &stubAccountRepo{
		updateFn: func(_ context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
			return &domain.Account{ID: id}, nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	owner := rpc.Identity{SubjectID: "u1", Role: domain.RoleClient}
	role := domain.RoleAdmin

	// An owner may edit their profile but never their own role.
	if _, err := svc.Update(context.Background(), owner, "u1", domain.AccountUpdate{Role: &role}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("owner role change: expected ErrPermissionDenied, got %v", err)
	}

	name := "Nuevo"
	if _, err := svc.Update(context.Background(), owner, "u1", domain.AccountUpdate{Name: &name}); err != nil {
		t.Fatalf("owner profile update: %v", err)
	}

	admin := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	if _, err := svc.Update(context.Background(), admin, "u1", domain.AccountUpdate{Role: &role}); err != nil {
		t.Fatalf("admin role change: %v", err)
	}
}

func TestUserService_Update_NormalizesEmail(t *testing.T) {
	repo := &stubAccountRepo{
		updateFn: func(_ context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
			if update.Email == nil || *update.Email != "nuevo@example.com" {
				t.Fatalf("email not normalized: %v", update.Email)
			}
			return &domain.Account{ID: id}, nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	email := "  Nuevo@Example.com "
	admin := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	if _, err := svc.Update(context.Background(), admin, "u1", domain.AccountUpdate{Email: &email}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestUserService_Delete_AdminOnly(t *testing.T) {
	repo := &stubAccountRepo{}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	owner := rpc.Identity{SubjectID: "u1", Role: domain.RoleClient}
	if err := svc.Delete(context.Background(), owner, "u1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("owner delete: expected ErrPermissionDenied, got %v", err)
	}
	if repo.softDeleteCalled {
		t.Fatalf("soft delete reached the repo on a denied call")
	}

	admin := rpc.Identity{SubjectID: "a1", Role: domain.RoleAdmin}
	if err := svc.Delete(context.Background(), admin, "u1"); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if !repo.softDeleteCalled {
		t.Fatalf("soft delete not invoked")
	}
}

func TestUserService_ChangePassword_HashesBeforePersisting(t *testing.T) {
	repo := &stubAccountRepo{
		updateHashFn: func(_ context.Context, id, hash string) error {
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpass1")); err != nil {
				t.Fatalf("hash does not match new password: %v", err)
			}
			return nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	owner := rpc.Identity{SubjectID: "u1", Role: domain.RoleClient}
	if err := svc.ChangePassword(context.Background(), owner, "u1", "newpass1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), owner, "u2", "newpass1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("foreign change: expected ErrPermissionDenied, got %v", err)
	}
}

func TestUserService_GetCredentials_NormalizesEmail(t *testing.T) {
	repo := &stubAccountRepo{
		findByEmailFn: func(_ context.Context, email string) (*domain.Account, error) {
			if email != "ana@example.com" {
				t.Fatalf("email not normalized: %s", email)
			}
			return &domain.Account{Email: email, PasswordHash: "hash"}, nil
		},
	}
	svc := NewUserService(repo, &stubPublisher{}, zerolog.Nop())

	account, err := svc.GetCredentials(context.Background(), " Ana@Example.com ")
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if account.PasswordHash == "" {
		t.Fatalf("credentials lookup must include the hash")
	}
}
