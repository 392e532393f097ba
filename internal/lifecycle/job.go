package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/config"
	"github.com/ariefcatur/go-food-orders/internal/orders"
)

// Job moves one order into Status once DueAt has passed.
type Job struct {
	OrderID string
	Status  orders.Status
	DueAt   time.Time
}

// steps are the automatic transitions in the order they must be applied.
var steps = []orders.Status{orders.StatusPreparing, orders.StatusOutForDelivery, orders.StatusDelivered}

// Plan returns the three automatic transitions of an order placed at placedAt.
func Plan(orderID string, placedAt time.Time, cfg config.LifecycleConfig) []Job {
	return []Job{
		{OrderID: orderID, Status: orders.StatusPreparing, DueAt: placedAt.Add(cfg.PreparingAfter)},
		{OrderID: orderID, Status: orders.StatusOutForDelivery, DueAt: placedAt.Add(cfg.OutForDeliveryAfter)},
		{OrderID: orderID, Status: orders.StatusDelivered, DueAt: placedAt.Add(cfg.DeliveredAfter)},
	}
}

func (j Job) member() string { return j.OrderID + "|" + string(j.Status) }

func parseMember(m string) (Job, error) {
	id, status, ok := strings.Cut(m, "|")
	if !ok || id == "" || !orders.Status(status).Valid() {
		return Job{}, fmt.Errorf("malformed lifecycle member %q", m)
	}
	return Job{OrderID: id, Status: orders.Status(status)}, nil
}
