// Package sessions tracks logged-out access tokens.
package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations stores revoked access tokens in Redis until they would have
// expired anyway. A nil *Revocations or nil client disables revocation.
type Revocations struct {
	client *redis.Client
	prefix string
}

func NewRevocations(c *redis.Client) *Revocations {
	return &Revocations{client: c, prefix: "blacklist:access:"}
}

func (r *Revocations) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return r.prefix + hex.EncodeToString(sum[:])
}

// Revoke marks token as revoked for ttl. Non-positive ttls are no-ops.
func (r *Revocations) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r == nil || r.client == nil || ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(token), "1", ttl).Err()
}

func (r *Revocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
