package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &RedisStore{RDB: rdb}
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"redis":  newRedisStore(t),
		"memory": NewMemoryStore(),
	}
}

func addA(qty int) Mutation {
	return func(cur *Cart) (*Cart, error) {
		return cur.Add("r1", "R1", menuItem("a", "2.50"), qty), nil
	}
}

func TestStoreVersionsAndAbsentState(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			c, v, err := s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Nil(t, c)
			assert.Zero(t, v)

			c, err = s.Update(ctx, "u1", nil, addA(2))
			require.NoError(t, err)
			assert.Equal(t, int64(1), c.Version)

			c, err = s.Update(ctx, "u1", nil, addA(1))
			require.NoError(t, err)
			assert.Equal(t, int64(2), c.Version)
			assert.Equal(t, 3, c.Quantity("a"))

			c, err = s.Update(ctx, "u1", nil, func(cur *Cart) (*Cart, error) { return cur.Remove("a"), nil })
			require.NoError(t, err)
			assert.Nil(t, c)

			c, v, err = s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Nil(t, c)
			assert.Equal(t, int64(3), v)
		})
	}
}

func TestStoreRejectsStaleVersion(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Update(ctx, "u1", nil, addA(1))
			require.NoError(t, err)

			stale := int64(0)
			_, err = s.Update(ctx, "u1", &stale, addA(5))
			assert.ErrorIs(t, err, ErrVersionConflict)

			c, _, err := s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 1, c.Quantity("a"))

			current := int64(1)
			c, err = s.Update(ctx, "u1", &current, addA(5))
			require.NoError(t, err)
			assert.Equal(t, 6, c.Quantity("a"))
		})
	}
}

func TestStoreMutationErrorLeavesCartUnchanged(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Update(ctx, "u1", nil, addA(1))
			require.NoError(t, err)

			boom := errors.New("declined")
			_, err = s.Update(ctx, "u1", nil, func(*Cart) (*Cart, error) { return nil, boom })
			assert.ErrorIs(t, err, boom)

			c, v, err := s.Load(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, int64(1), v)
			assert.Equal(t, 1, c.Quantity("a"))
		})
	}
}

func TestRedisStoreUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newRedisStore(t)

	_, err := s.Update(ctx, "u1", nil, addA(1))
	require.NoError(t, err)

	c, _, err := s.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, c)
}
