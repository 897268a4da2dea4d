package ports

import (
	"context"
	"time"

	"github.com/streamflow/platform/internal/rpc"
)

// TokenManager owns the session token lifecycle. Verify distinguishes three
// rejection reasons via domain sentinels: ErrTokenInvalid (malformed or wrong
// signature), ErrTokenExpired, ErrTokenRevoked.
type TokenManager interface {
	Issue(subjectID, role string) (string, error)
	Verify(ctx context.Context, token string) (rpc.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// RevocationStore tracks revoked-but-not-yet-expired tokens. It is a
// negative cache: expired records may be garbage-collected at any time.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
