package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON read-through cache over Redis.
type Cache struct {
	rdb redis.Cmdable
}

func NewCache(rdb redis.Cmdable) *Cache { return &Cache{rdb: rdb} }

// GetJSON decodes key into out; found is false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		// a corrupt entry behaves like a miss and is dropped
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Invalidate drops keys and bumps their generation, so a fill that read the
// source before this call is rejected by SetJSONIfFresh.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		for _, k := range keys {
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), TTLCacheGen)
		}
		return nil
	})
	return err
}

// Delete drops keys without touching their generation.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Stamp returns the current generation of key. Take it before reading the
// source of a read-through fill.
func (c *Cache) Stamp(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Get(ctx, genKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

var setIfGenScript = redis.NewScript(`
local gen = tonumber(redis.call('GET', KEYS[2]) or '0')
if gen ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// SetJSONIfFresh stores v only when key was not invalidated since stamp was
// taken, and reports whether it did.
func (c *Cache) SetJSONIfFresh(ctx context.Context, key string, v any, ttl time.Duration, stamp int64) (bool, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	n, err := setIfGenScript.Run(ctx, c.rdb, []string{key, genKey(key)}, stamp, b, ttl.Milliseconds()).Int()
	return n == 1, err
}

func genKey(key string) string { return key + ":gen" }
