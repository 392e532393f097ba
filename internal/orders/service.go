package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/cart"
	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/redisx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	kafkago "github.com/segmentio/kafka-go"
)

type Repository interface {
	Create(ctx context.Context, o Order) (Order, bool, error)
	GetByExternalID(ctx context.Context, externalID string) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Order, error)
	TransitionStatus(ctx context.Context, id string, from, to Status, at time.Time) (Order, bool, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Stamp(ctx context.Context, key string) (int64, error)
	SetJSONIfFresh(ctx context.Context, key string, v any, ttl time.Duration, stamp int64) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
}

type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// JobCanceller drops the pending lifecycle transitions of an order.
type JobCanceller interface {
	CancelOrder(ctx context.Context, orderID string) error
}

type Service struct {
	Repo        Repository
	Cache       Cache
	Producer    Publisher
	Jobs        JobCanceller
	Log         *logger.Logger
	ServiceName string
	ETA         time.Duration
	Now         func() time.Time
}

type PlaceInput struct {
	ExternalID    string
	UserID        string
	RestaurantID  string
	AddressID     string
	Items         []cart.Item
	TotalAmount   decimal.Decimal
	PaymentMethod PaymentMethod
	TraceID       string
}

// Place persists a pending order and announces it. Re-placing an existing
// external_id returns the stored order with existed=true and no event.
func (s *Service) Place(ctx context.Context, in PlaceInput) (Order, bool, error) {
	if !in.PaymentMethod.Valid() {
		return Order{}, false, apperr.New(apperr.CodeValidation, fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	if len(in.Items) == 0 {
		return Order{}, false, apperr.New(apperr.CodeValidation, "order has no items")
	}
	now := s.now()
	eta := now.Add(s.ETA)
	o := Order{
		ExternalID:            in.ExternalID,
		UserID:                in.UserID,
		RestaurantID:          in.RestaurantID,
		AddressID:             in.AddressID,
		Items:                 in.Items,
		TotalAmount:           in.TotalAmount,
		Status:                StatusPending,
		PaymentMethod:         in.PaymentMethod,
		PaymentStatus:         PaymentPaid,
		PlacedAt:              now,
		EstimatedDeliveryTime: &eta,
	}
	if in.PaymentMethod == PaymentCash {
		o.PaymentStatus = PaymentPending
	}

	o, existed, err := s.Repo.Create(ctx, o)
	if err != nil {
		return Order{}, false, apperr.Wrap(apperr.CodeDependency, err, "create order")
	}
	if existed {
		if o.UserID != in.UserID {
			return Order{}, false, apperr.New(apperr.CodeConflict, "external_id already used")
		}
		return o, true, nil
	}

	ctx = s.Log.WithOrderID(ctx, o.ID)
	if err := s.Cache.SetJSON(ctx, fmt.Sprintf(redisx.KeyIdemOrderCreate, o.ExternalID), o.ID, redisx.TTLIdempotency); err != nil {
		s.Log.Warn(ctx, "order.idempotency_cache_failed", err)
	}
	s.invalidate(ctx, o)
	s.publish(ctx, TopicOrderPlaced, EventOrderPlaced, o.ID, in.TraceID, OrderPlacedPayload{
		OrderID:      o.ID,
		ExternalID:   o.ExternalID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		TotalAmount:  o.TotalAmount.StringFixed(2),
		PlacedAt:     o.PlacedAt,
	})
	s.Log.Info(ctx, "order.placed")
	return o, false, nil
}

// FindByExternalID returns the order a checkout key already produced, if any.
func (s *Service) FindByExternalID(ctx context.Context, externalID string) (Order, bool, error) {
	var id string
	if ok, _ := s.Cache.GetJSON(ctx, fmt.Sprintf(redisx.KeyIdemOrderCreate, externalID), &id); ok && id != "" {
		o, err := s.Get(ctx, id)
		if err == nil {
			return o, true, nil
		}
	}
	o, err := s.Repo.GetByExternalID(ctx, externalID)
	if errors.Is(err, ErrNotFound) {
		return Order{}, false, nil
	}
	if err != nil {
		return Order{}, false, apperr.Wrap(apperr.CodeDependency, err, "lookup order")
	}
	return o, true, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	key := fmt.Sprintf(redisx.KeyOrder, id)
	var o Order
	if ok, _ := s.Cache.GetJSON(ctx, key, &o); ok {
		return o, nil
	}
	stamp, stampErr := s.Cache.Stamp(ctx, key)
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, mapErr(err, "get order")
	}
	s.fill(ctx, key, o, stamp, stampErr)
	return o, nil
}

// GetForUser hides orders of other users behind NOT_FOUND.
func (s *Service) GetForUser(ctx context.Context, userID, id string) (Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != userID {
		return Order{}, apperr.New(apperr.CodeNotFound, ErrNotFound.Error())
	}
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.list(ctx, fmt.Sprintf(redisx.KeyUserOrders, userID), func() ([]Order, error) {
		return s.Repo.ListByUser(ctx, userID)
	})
}

func (s *Service) ListByRestaurant(ctx context.Context, restaurantID string) ([]Order, error) {
	return s.list(ctx, fmt.Sprintf(redisx.KeyRestaurantOrders, restaurantID), func() ([]Order, error) {
		return s.Repo.ListByRestaurant(ctx, restaurantID)
	})
}

func (s *Service) list(ctx context.Context, key string, load func() ([]Order, error)) ([]Order, error) {
	var out []Order
	if ok, _ := s.Cache.GetJSON(ctx, key, &out); ok {
		return out, nil
	}
	stamp, stampErr := s.Cache.Stamp(ctx, key)
	out, err := load()
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "list orders")
	}
	if out == nil {
		out = []Order{}
	}
	s.fill(ctx, key, out, stamp, stampErr)
	return out, nil
}

// fill caches v unless key was invalidated after stamp was taken; a write
// racing a status change would otherwise pin the old view until the TTL.
func (s *Service) fill(ctx context.Context, key string, v any, stamp int64, stampErr error) {
	if stampErr != nil {
		s.Log.Warn(ctx, "order.cache_stamp_failed", stampErr)
		return
	}
	if _, err := s.Cache.SetJSONIfFresh(ctx, key, v, redisx.TTLOrderCache, stamp); err != nil {
		s.Log.Warn(ctx, "order.cache_set_failed", err)
	}
}

// Cancel moves a not yet delivered order of userID to cancelled and drops
// its scheduled transitions.
func (s *Service) Cancel(ctx context.Context, userID, id string) (Order, error) {
	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, mapErr(err, "get order")
	}
	if cur.UserID != userID {
		return Order{}, apperr.New(apperr.CodeNotFound, ErrNotFound.Error())
	}
	o, err := s.transition(ctx, cur, StatusCancelled)
	if err != nil {
		return Order{}, err
	}
	if err := s.Jobs.CancelOrder(ctx, o.ID); err != nil {
		// transitions that still fire are rejected by the status guard
		s.Log.Warn(s.Log.WithOrderID(ctx, o.ID), "order.cancel_jobs_failed", err)
	}
	return o, nil
}

// UpdateStatus is the manual transition used by restaurant staff.
func (s *Service) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	if !to.Valid() {
		return Order{}, apperr.New(apperr.CodeValidation, fmt.Sprintf("unknown status %q", to))
	}
	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Order{}, mapErr(err, "get order")
	}
	o, err := s.transition(ctx, cur, to)
	if err != nil {
		return Order{}, err
	}
	if to == StatusCancelled {
		if err := s.Jobs.CancelOrder(ctx, o.ID); err != nil {
			s.Log.Warn(s.Log.WithOrderID(ctx, o.ID), "order.cancel_jobs_failed", err)
		}
	}
	return o, nil
}

// Advance applies one scheduled lifecycle step. applied=false when the
// order is no longer in the preceding status.
func (s *Service) Advance(ctx context.Context, id string, to Status) (Order, bool, error) {
	from, ok := to.Previous()
	if !ok {
		return Order{}, false, fmt.Errorf("no automatic transition into %q", to)
	}
	o, applied, err := s.Repo.TransitionStatus(ctx, id, from, to, s.now())
	if err != nil || !applied {
		return Order{}, false, err
	}
	s.afterTransition(s.Log.WithOrderID(ctx, id), o, from)
	return o, true, nil
}

func (s *Service) transition(ctx context.Context, cur Order, to Status) (Order, error) {
	if !CanTransition(cur.Status, to) {
		return Order{}, apperr.New(apperr.CodeStateConflict, "illegal status transition").
			WithDetails(map[string]any{"from": cur.Status, "to": to})
	}
	o, applied, err := s.Repo.TransitionStatus(ctx, cur.ID, cur.Status, to, s.now())
	if err != nil {
		return Order{}, apperr.Wrap(apperr.CodeDependency, err, "update order status")
	}
	if !applied {
		return Order{}, apperr.New(apperr.CodeStateConflict, "order status changed concurrently")
	}
	s.afterTransition(s.Log.WithOrderID(ctx, o.ID), o, cur.Status)
	return o, nil
}

func (s *Service) afterTransition(ctx context.Context, o Order, from Status) {
	s.invalidate(ctx, o)
	topic, event := TopicOrderStatusChanged, EventOrderStatusChanged
	if o.Status == StatusCancelled {
		topic, event = TopicOrderCancelled, EventOrderCancelled
	}
	s.publish(ctx, topic, event, o.ID, "", StatusChangedPayload{
		OrderID:      o.ID,
		UserID:       o.UserID,
		RestaurantID: o.RestaurantID,
		From:         from,
		To:           o.Status,
		ChangedAt:    s.now(),
		DeliveredAt:  o.DeliveredAt,
	})
	s.Log.Info(s.Log.WithFields(ctx, map[string]any{"from": from, "to": o.Status}), "order.status_changed")
}

// InvalidationKeys are the cached views that depend on o.
func InvalidationKeys(o Order) []string {
	return []string{
		fmt.Sprintf(redisx.KeyOrder, o.ID),
		fmt.Sprintf(redisx.KeyUserOrders, o.UserID),
		fmt.Sprintf(redisx.KeyRestaurantOrders, o.RestaurantID),
	}
}

func (s *Service) invalidate(ctx context.Context, o Order) {
	if err := s.Cache.Invalidate(ctx, InvalidationKeys(o)...); err != nil {
		s.Log.Warn(ctx, "order.cache_invalidate_failed", err)
	}
}

func (s *Service) publish(ctx context.Context, topic, eventType, orderID, traceID string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Producer.Publish(topic, PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func mapErr(err error, op string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, err, err.Error())
	}
	return apperr.Wrap(apperr.CodeDependency, err, op)
}
