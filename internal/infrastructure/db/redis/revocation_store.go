package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore keeps revoked-but-not-yet-expired tokens in Redis. Each
// record carries a TTL equal to the token's remaining lifetime, so the list
// garbage-collects itself: once the signature check would reject the token
// anyway, the record expires.
//
// Tokens are keyed by their SHA-256 so the raw bearer credential never lands
// in the store. Key format: revoked:<hex digest>
type RevocationStore struct {
	client *redis.Client
}

func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke records the token until ttl elapses. Idempotent: re-revoking simply
// refreshes the record.
func (s *RevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(token), "1", ttl).Err()
}

// IsRevoked reports whether a matching, non-expired revocation record exists.
func (s *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "revoked:" + hex.EncodeToString(sum[:])
}
