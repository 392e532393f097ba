package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
)

type Store interface {
	Schedule(ctx context.Context, jobs ...Job) error
	// Claim leases up to limit due jobs. A claimed job that is not acked
	// becomes due again once the lease runs out.
	Claim(ctx context.Context, now time.Time, limit int) ([]Job, error)
	Ack(ctx context.Context, jobs ...Job) error
	CancelOrder(ctx context.Context, orderID string) error
}

// claimScript leases due members by pushing their score to the lease deadline
// and returns member/score pairs as they were before the bump. A member whose
// preceding step is still queued is left alone unless that step was claimed
// earlier in the same call, so the steps of one order are never handed out
// out of order, not even after a lease has run out.
var claimScript = redis.NewScript(`
local limit = tonumber(ARGV[2])
local prev = {}
for i = 4, #ARGV, 2 do
	prev[ARGV[i]] = ARGV[i + 1]
end
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'WITHSCORES', 'LIMIT', 0, limit * 4)
local claimed, out = {}, {}
for i = 1, #due, 2 do
	if #out >= limit * 2 then
		break
	end
	local m = due[i]
	local ready = true
	local sep = string.find(m, '|', 1, true)
	if sep then
		local p = prev[string.sub(m, sep + 1)]
		if p then
			local pm = string.sub(m, 1, sep) .. p
			if not claimed[pm] and redis.call('ZSCORE', KEYS[1], pm) then
				ready = false
			end
		end
	end
	if ready then
		claimed[m] = true
		redis.call('ZADD', KEYS[1], 'XX', ARGV[3], m)
		table.insert(out, m)
		table.insert(out, due[i + 1])
	end
end
return out
`)

// RedisStore keeps jobs in one sorted set scored by due time in unix millis,
// so pending transitions survive a restart of the worker.
type RedisStore struct {
	RDB   redis.Cmdable
	Lease time.Duration
}

func (s *RedisStore) Schedule(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}
	zs := make([]redis.Z, 0, len(jobs))
	for _, j := range jobs {
		zs = append(zs, redis.Z{Score: float64(j.DueAt.UnixMilli()), Member: j.member()})
	}
	// NX keeps a redelivered OrderPlaced from moving jobs that are leased
	return s.RDB.ZAddNX(ctx, redisx.KeyLifecycleDue, zs...).Err()
}

func (s *RedisStore) Claim(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}
	lease := s.Lease
	if lease <= 0 {
		lease = time.Minute
	}
	args := []any{now.UnixMilli(), limit, now.Add(lease).UnixMilli()}
	for i := 1; i < len(steps); i++ {
		args = append(args, string(steps[i]), string(steps[i-1]))
	}
	raw, err := claimScript.Run(ctx, s.RDB, []string{redisx.KeyLifecycleDue}, args...).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("claim lifecycle jobs: %w", err)
	}
	out := make([]Job, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		j, err := parseMember(raw[i])
		if err != nil {
			// unparseable entries can never run
			_ = s.RDB.ZRem(ctx, redisx.KeyLifecycleDue, raw[i]).Err()
			continue
		}
		ms, err := strconv.ParseFloat(raw[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse lifecycle score %q: %w", raw[i+1], err)
		}
		j.DueAt = time.UnixMilli(int64(ms))
		out = append(out, j)
	}
	return out, nil
}

func (s *RedisStore) Ack(ctx context.Context, jobs ...Job) error {
	if len(jobs) == 0 {
		return nil
	}
	members := make([]any, 0, len(jobs))
	for _, j := range jobs {
		members = append(members, j.member())
	}
	return s.RDB.ZRem(ctx, redisx.KeyLifecycleDue, members...).Err()
}

func (s *RedisStore) CancelOrder(ctx context.Context, orderID string) error {
	jobs := make([]Job, 0, len(steps))
	for _, st := range steps {
		jobs = append(jobs, Job{OrderID: orderID, Status: st})
	}
	return s.Ack(ctx, jobs...)
}
