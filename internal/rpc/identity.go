package rpc

import (
	"context"
	"net/http"
)

// Header names for the out-of-band identity fields. Backends read identity
// from these headers only, never from the request payload.
const (
	HeaderSubjectID   = "X-Subject-Id"
	HeaderSubjectRole = "X-Subject-Role"
)

// Identity is the caller identity asserted by the gateway after token
// verification. A zero SubjectID means the call is unauthenticated.
type Identity struct {
	SubjectID string
	Role      string
}

// Anonymous reports whether no verified actor is attached.
func (id Identity) Anonymous() bool {
	return id.SubjectID == ""
}

// IsAdmin reports whether the actor carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == "admin"
}

// SetHeaders writes the identity onto an outgoing request. Anonymous
// identities write nothing, so the receiving side sees no actor.
func (id Identity) SetHeaders(h http.Header) {
	if id.Anonymous() {
		return
	}
	h.Set(HeaderSubjectID, id.SubjectID)
	h.Set(HeaderSubjectRole, id.Role)
}

// IdentityFromHeaders reads the identity of an incoming request.
func IdentityFromHeaders(h http.Header) Identity {
	return Identity{
		SubjectID: h.Get(HeaderSubjectID),
		Role:      h.Get(HeaderSubjectRole),
	}
}

type identityKey struct{}

// NewContext returns ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the server middleware.
// Absent identity yields the anonymous zero value.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
