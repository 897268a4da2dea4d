package authz

import (
	"errors"
	"testing"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

var (
	admin     = rpc.Identity{SubjectID: "admin_1", Role: domain.RoleAdmin}
	client    = rpc.Identity{SubjectID: "client_1", Role: domain.RoleClient}
	anonymous = rpc.Identity{}
)

func TestRequireActor(t *testing.T) {
	if err := RequireActor(client); err != nil {
		t.Fatalf("authenticated actor rejected: %v", err)
	}
	if err := RequireActor(anonymous); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	if err := RequireAdmin(admin); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := RequireAdmin(client); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := RequireAdmin(anonymous); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	if err := RequireOwnerOrAdmin(client, "client_1"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := RequireOwnerOrAdmin(admin, "someone_else"); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := RequireOwnerOrAdmin(client, "someone_else"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := RequireOwnerOrAdmin(anonymous, "client_1"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRoleAssignment(t *testing.T) {
	if err := RequireRoleAssignment(admin); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	// Owning the account does not allow touching its role.
	if err := RequireRoleAssignment(client); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := RequireRoleAssignment(anonymous); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
