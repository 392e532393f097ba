package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-food-orders/internal/config"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

const dedupScope = "lifecycle"

// Handler turns OrderPlaced events into queued transitions.
type Handler struct {
	Store   Store
	Redis   redis.Cmdable
	Delays  config.LifecycleConfig
	Log     *logger.Logger
	Metrics *Metrics
}

// HandleOrderPlaced dipasang sebagai handler consumer. Returning an error
// makes the consumer retry the message before it commits anything later.
func (h *Handler) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		h.Log.Warn(ctx, "lifecycle.bad_envelope", err)
		return nil
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	} // ignore

	dkey := fmt.Sprintf(redisx.KeyDedup, dedupScope, env.EventID)
	if seen, _ := redisx.Exists(ctx, h.Redis, dkey); seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		h.Log.Warn(ctx, "lifecycle.bad_payload", err)
		return nil
	}
	ctx = h.Log.WithOrderID(ctx, p.OrderID)

	if err := h.Store.Schedule(ctx, Plan(p.OrderID, p.PlacedAt, h.Delays)...); err != nil {
		return fmt.Errorf("schedule order %s: %w", p.OrderID, err)
	}
	if _, err := redisx.MarkOnce(ctx, h.Redis, dkey, redisx.TTLDedup); err != nil {
		h.Log.Warn(ctx, "lifecycle.dedup_mark_failed", err)
	}
	h.Metrics.incScheduled()
	h.Log.Info(ctx, "lifecycle.scheduled")
	return nil
}
