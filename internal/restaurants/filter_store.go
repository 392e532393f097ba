package restaurants

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-food-orders/internal/redisx"
)

// FilterStore keeps each user's last applied FilterOptions.
type FilterStore struct {
	Cache *redisx.Cache
}

func (s *FilterStore) Get(ctx context.Context, userID string) (FilterOptions, error) {
	var f FilterOptions
	if _, err := s.Cache.GetJSON(ctx, key(userID), &f); err != nil {
		return FilterOptions{}, err
	}
	return f, nil
}

func (s *FilterStore) Set(ctx context.Context, userID string, f FilterOptions) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return s.Cache.SetJSON(ctx, key(userID), f, redisx.TTLFilters)
}

func (s *FilterStore) Reset(ctx context.Context, userID string) error {
	return s.Cache.Delete(ctx, key(userID))
}

func key(userID string) string { return fmt.Sprintf(redisx.KeyFilters, userID) }
