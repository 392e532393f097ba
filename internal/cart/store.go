package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

var (
	ErrVersionConflict    = apperr.New(apperr.CodeConflict, "cart was modified concurrently")
	ErrRestaurantConflict = apperr.New(apperr.CodeConflict, "cart holds items from another restaurant")
)

// Mutation maps the current cart (nil when absent) to the next one.
type Mutation func(cur *Cart) (*Cart, error)

type Store interface {
	Load(ctx context.Context, userID string) (*Cart, int64, error)
	// Update applies fn atomically. When expected is non-nil the stored
	// version must equal it or ErrVersionConflict is returned.
	Update(ctx context.Context, userID string, expected *int64, fn Mutation) (*Cart, error)
}

// record keeps the version alive across the absent state so that a stale
// writer cannot match a cart that was cleared and recreated.
type record struct {
	Cart    *Cart `json:"cart,omitempty"`
	Version int64 `json:"version"`
}

func apply(rec record, expected *int64, fn Mutation) (record, *Cart, error) {
	if expected != nil && *expected != rec.Version {
		return rec, nil, ErrVersionConflict
	}
	next, err := fn(rec.Cart)
	if err != nil {
		return rec, nil, err
	}
	out := record{Version: rec.Version + 1}
	if !next.IsEmpty() {
		next.Version = out.Version
		out.Cart = next
	}
	return out, out.Cart, nil
}

type RedisStore struct {
	RDB *redis.Client
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Cart, int64, error) {
	rec, err := readRecord(ctx, s.RDB, cartKey(userID))
	if err != nil {
		return nil, 0, err
	}
	return rec.Cart, rec.Version, nil
}

func (s *RedisStore) Update(ctx context.Context, userID string, expected *int64, fn Mutation) (*Cart, error) {
	key := cartKey(userID)
	var out *Cart
	err := s.RDB.Watch(ctx, func(tx *redis.Tx) error {
		rec, err := readRecord(ctx, tx, key)
		if err != nil {
			return err
		}
		next, c, err := apply(rec, expected, fn)
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, b, redisx.TTLCart)
			return nil
		})
		out = c
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrVersionConflict
	}
	return out, err
}

func readRecord(ctx context.Context, rdb redis.Cmdable, key string) (record, error) {
	var rec record
	b, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return rec, nil
	}
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(b, &rec); err != nil {
		return record{}, fmt.Errorf("decode cart %s: %w", key, err)
	}
	return rec, nil
}

func cartKey(userID string) string { return fmt.Sprintf(redisx.KeyCart, userID) }

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]record)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*Cart, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.recs[userID]
	return rec.Cart, rec.Version, nil
}

func (s *MemoryStore) Update(_ context.Context, userID string, expected *int64, fn Mutation) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, c, err := apply(s.recs[userID], expected, fn)
	if err != nil {
		return nil, err
	}
	s.recs[userID] = next
	return c, nil
}
