package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/rpc"
)

const defaultTokenTTL = 24 * time.Hour

// sessionClaims is the signed token payload: subject id, role, iat, exp.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService implements the session token lifecycle: issue, verify, revoke.
// Tokens are not stored at issuance: a valid signature plus a non-expired
// timestamp is the whole proof. Revocation is a negative list checked only
// after the cheap signature and expiry checks pass.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	revocations ports.RevocationStore
}

func NewTokenService(secret string, ttl time.Duration, revocations ports.RevocationStore) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, revocations: revocations}
}

// Issue creates a signed token asserting subjectID and role for the
// configured horizon.
func (s *TokenService) Issue(subjectID, role string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks signature, then expiry, then revocation, and returns the
// embedded identity. Rejections are tagged so the edge can report them
// distinctly: ErrTokenExpired for a past expiry on an otherwise sound token,
// ErrTokenRevoked for a revocation-list hit, ErrTokenInvalid for everything
// structurally or cryptographically wrong.
func (s *TokenService) Verify(ctx context.Context, token string) (rpc.Identity, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return rpc.Identity{}, domain.ErrTokenExpired
		}
		return rpc.Identity{}, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return rpc.Identity{}, domain.ErrTokenInvalid
	}

	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		return rpc.Identity{}, err
	}
	if revoked {
		return rpc.Identity{}, domain.ErrTokenRevoked
	}

	return rpc.Identity{SubjectID: claims.Subject, Role: claims.Role}, nil
}

// Revoke records the token on the revocation list until its embedded expiry.
// The expiry is decoded without re-verifying the signature: a forged token on
// the list is harmless, and logout must succeed for any token the caller
// holds. Revoking an already-revoked or already-expired token is a no-op.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims := &sessionClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	ttl := s.ttl
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		// Expiry already rejects it; nothing to record.
		return nil
	}

	return s.revocations.Revoke(ctx, token, ttl)
}
