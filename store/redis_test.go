package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/pathwise/core"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore_KV(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t)

	_, err := s.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 60))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.True(t, mr.TTL("k") > 0)

	mr.FastForward(61 * time.Second)
	_, err = s.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "k2", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k2"))
	assert.False(t, mr.Exists("k2"))
}

func TestRedisStore_ZSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t)

	require.NoError(t, s.ZIncrBy(ctx, "popular:tesda", 1, "Welding NC II"))
	require.NoError(t, s.ZIncrBy(ctx, "popular:tesda", 3, "Cookery NC II"))

	got, err := s.ZRevRangeWithScores(ctx, "popular:tesda", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []core.PopularTitle{
		{Title: "Cookery NC II", Saves: 3},
		{Title: "Welding NC II", Saves: 1},
	}, got)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(addr, "", 0)
	assert.Error(t, err)
}
