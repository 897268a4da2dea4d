// Package authz is the authorization policy shared by every backend service.
// The gateway's authentication is necessary but never sufficient: each
// service re-evaluates these rules on its own side of the RPC boundary.
package authz

import (
	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

// RequireActor rejects calls that carry no verified subject.
func RequireActor(actor rpc.Identity) error {
	if actor.Anonymous() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin allows only authenticated admins.
func RequireAdmin(actor rpc.Identity) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrPermissionDenied
	}
	return nil
}

// RequireOwnerOrAdmin allows admins unconditionally, otherwise the actor must
// own the target resource (subject id equals the owning id).
func RequireOwnerOrAdmin(actor rpc.Identity, ownerID string) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.SubjectID != ownerID {
		return domain.ErrPermissionDenied
	}
	return nil
}

// RequireRoleAssignment gates creating or changing a role field. Only admins
// may touch roles; ownership of the target account does not help.
func RequireRoleAssignment(actor rpc.Identity) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrPermissionDenied
	}
	return nil
}
