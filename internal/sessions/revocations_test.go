package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRevokeAndExpire(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	r := NewRevocations(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	ctx := context.Background()
	token := "access-token-1"
	require.NoError(t, r.Revoke(ctx, token, 2*time.Second))

	ok, err := r.IsRevoked(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, m.Keys(), 1)
	require.NotContains(t, m.Keys()[0], token, "raw tokens are not stored")

	m.FastForward(3 * time.Second)
	ok, err = r.IsRevoked(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.Revoke(ctx, "expired", 0))
	ok, _ = r.IsRevoked(ctx, "expired")
	require.False(t, ok)
}

func TestRevocationsWithoutRedis(t *testing.T) {
	ctx := context.Background()
	for _, r := range []*Revocations{nil, NewRevocations(nil)} {
		require.NoError(t, r.Revoke(ctx, "t", time.Minute))
		ok, err := r.IsRevoked(ctx, "t")
		require.NoError(t, err)
		require.False(t, ok)
	}
}
