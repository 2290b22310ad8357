package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlacklist(t *testing.T) (TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenBlacklist(client), mr
}

func TestTokenBlacklist_AddAndExpire(t *testing.T) {
	bl, mr := newBlacklist(t)
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("blacklist:jti-1"))

	ok, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenBlacklist_ExpiredTokenNotStored(t *testing.T) {
	bl, mr := newBlacklist(t)

	require.NoError(t, bl.Add(context.Background(), "jti-old", -time.Second))
	assert.False(t, mr.Exists("blacklist:jti-old"))
}

func TestTokenBlacklist_RedisDown(t *testing.T) {
	bl, mr := newBlacklist(t)
	mr.Close()

	_, err := bl.Contains(context.Background(), "jti-1")
	assert.Error(t, err)
}
