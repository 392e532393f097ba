package lifecycle

import (
	"context"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/orders"
)

const (
	resultApplied = "applied"
	resultSkipped = "skipped"
	resultFailed  = "failed"
)

type Advancer interface {
	Advance(ctx context.Context, orderID string, to orders.Status) (orders.Order, bool, error)
}

// Scheduler polls the store and applies due transitions in due order.
type Scheduler struct {
	Store    Store
	Orders   Advancer
	Log      *logger.Logger
	Metrics  *Metrics
	Interval time.Duration
	Batch    int
	Now      func() time.Time
}

func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := s.RunDue(ctx); err != nil && ctx.Err() == nil {
			s.Log.Error(ctx, "lifecycle.claim_failed", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// RunDue applies every job due now and returns how many were processed.
// A failed transition is logged and dropped; later steps of that order then
// find it in the wrong status and become no-ops.
func (s *Scheduler) RunDue(ctx context.Context) (int, error) {
	now := s.now()
	jobs, err := s.Store.Claim(ctx, now, s.Batch)
	if err != nil {
		return 0, err
	}
	for _, j := range jobs {
		jctx := s.Log.WithFields(ctx, map[string]any{"order_id": j.OrderID, "to": j.Status})
		_, applied, err := s.Orders.Advance(jctx, j.OrderID, j.Status)
		lag := now.Sub(j.DueAt)
		switch {
		case err != nil:
			s.Log.Error(jctx, "lifecycle.transition_failed", err)
			s.Metrics.observe(string(j.Status), resultFailed, lag)
		case !applied:
			s.Log.Debug(jctx, "lifecycle.transition_skipped")
			s.Metrics.observe(string(j.Status), resultSkipped, lag)
		default:
			s.Metrics.observe(string(j.Status), resultApplied, lag)
		}
		if err := s.Store.Ack(ctx, j); err != nil {
			s.Log.Warn(jctx, "lifecycle.ack_failed", err)
		}
	}
	return len(jobs), nil
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
