package restaurants

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFilterStore(t *testing.T) *FilterStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return &FilterStore{Cache: redisx.NewCache(rdb)}
}

func TestFilterStoreSetGetReset(t *testing.T) {
	ctx := context.Background()
	s := newFilterStore(t)

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, FilterOptions{}, got)

	want := FilterOptions{CuisineType: []string{"Italian"}, Rating: 4, SortBy: SortPriceLowToHigh}
	require.NoError(t, s.Set(ctx, "u1", want))

	got, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Reset(ctx, "u1"))
	got, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, FilterOptions{}, got)
}

func TestFilterStoreRejectsInvalid(t *testing.T) {
	s := newFilterStore(t)
	assert.Error(t, s.Set(context.Background(), "u1", FilterOptions{Rating: 9}))
}
