package redisx

import "time"

const (
	// Idempotency checkout: idem:order:create:{external_id} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s"

	// Cached order views, dropped on every status change.
	KeyOrder            = "order:%s"
	KeyUserOrders       = "orders:user:%s"
	KeyRestaurantOrders = "orders:restaurant:%s"

	// Per-user state: cart:{user_id}, filters:{user_id}
	KeyCart    = "cart:%s"
	KeyFilters = "filters:%s"

	// Lifecycle queue: zset of "{order_id}|{status}" scored by due unix millis.
	KeyLifecycleDue = "lifecycle:due"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLOrderCache  = 5 * time.Minute
	TTLCart        = 7 * 24 * time.Hour
	TTLFilters     = 30 * 24 * time.Hour
	TTLDedup       = 48 * time.Hour
	TTLCacheGen    = time.Hour // outlives any read-through fill in flight
)
