package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCacheRoundTripAndInvalidate(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	c := NewCache(rdb)

	type view struct {
		Status string `json:"status"`
	}
	var got view
	found, err := c.GetJSON(ctx, "order:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "order:1", view{Status: "pending"}, time.Minute))
	found, err = c.GetJSON(ctx, "order:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pending", got.Status)

	require.NoError(t, c.Invalidate(ctx, "order:1", "orders:user:u1"))
	found, err = c.GetJSON(ctx, "order:1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	require.NoError(t, mr.Set("order:2", "{not json"))

	var out map[string]any
	found, err := NewCache(rdb).GetJSON(ctx, "order:2", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("order:2"))
}

func TestSetJSONIfFreshRejectsFillAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	c := NewCache(rdb)

	stamp, err := c.Stamp(ctx, "order:3")
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, "order:3"))

	ok, err := c.SetJSONIfFresh(ctx, "order:3", map[string]string{"status": "pending"}, time.Minute, stamp)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("order:3"))

	stamp, err = c.Stamp(ctx, "order:3")
	require.NoError(t, err)
	ok, err = c.SetJSONIfFresh(ctx, "order:3", map[string]string{"status": "preparing"}, time.Minute, stamp)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("order:3"))
}

func TestMarkOnce(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)

	first, err := MarkOnce(ctx, rdb, "dedup:x:1", time.Minute)
	require.NoError(t, err)
	second, err := MarkOnce(ctx, rdb, "dedup:x:1", time.Minute)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	ok, err := Exists(ctx, rdb, "dedup:x:1")
	require.NoError(t, err)
	assert.True(t, ok)
}
