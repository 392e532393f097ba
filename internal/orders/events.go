package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCancelled     = "OrderCancelled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID      string    `json:"order_id"`
	ExternalID   string    `json:"external_id"`
	UserID       string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	TotalAmount  string    `json:"total_amount"`
	PlacedAt     time.Time `json:"placed_at"`
}

type StatusChangedPayload struct {
	OrderID      string     `json:"order_id"`
	UserID       string     `json:"user_id"`
	RestaurantID string     `json:"restaurant_id"`
	From         Status     `json:"from"`
	To           Status     `json:"to"`
	ChangedAt    time.Time  `json:"changed_at"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
}
