package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/addresses"
	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/cart"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/orders"
)

type CartService interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string, expected *int64) error
}

type AddressLookup interface {
	Get(ctx context.Context, userID, id string) (addresses.Address, error)
}

type OrderPlacer interface {
	FindByExternalID(ctx context.Context, externalID string) (orders.Order, bool, error)
	Place(ctx context.Context, in orders.PlaceInput) (orders.Order, bool, error)
}

type Service struct {
	Carts     CartService
	Addresses AddressLookup
	Orders    OrderPlacer
	Log       *logger.Logger
}

type Input struct {
	ExternalID    string               `json:"external_id" validate:"required,max=100"`
	AddressID     string               `json:"address_id"`
	PaymentMethod orders.PaymentMethod `json:"payment_method"`
	TraceID       string               `json:"-"`
}

type Result struct {
	Order    orders.Order `json:"order"`
	Totals   Totals       `json:"totals"`
	Replayed bool         `json:"replayed"`
}

// Checkout turns the user's cart into one order. Validation failures leave
// the cart untouched; a repeated ExternalID returns the order it produced.
func (s *Service) Checkout(ctx context.Context, userID string, in Input) (Result, error) {
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	if in.ExternalID == "" {
		return Result{}, apperr.New(apperr.CodeValidation, "external_id is required")
	}

	prev, found, err := s.Orders.FindByExternalID(ctx, in.ExternalID)
	if err != nil {
		return Result{}, err
	}
	if found {
		return s.replay(userID, prev)
	}

	c, err := s.Carts.Get(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if c.IsEmpty() {
		return Result{}, apperr.New(apperr.CodeValidation, "cart is empty")
	}
	if in.AddressID == "" {
		return Result{}, apperr.New(apperr.CodeValidation, "select a delivery address")
	}
	if _, err := s.Addresses.Get(ctx, userID, in.AddressID); err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return Result{}, apperr.New(apperr.CodeValidation, "delivery address not found").
				WithDetails(map[string]any{"address_id": in.AddressID})
		}
		return Result{}, err
	}
	if !in.PaymentMethod.Valid() {
		return Result{}, apperr.New(apperr.CodeValidation, "unsupported payment method").
			WithDetails(map[string]any{"payment_method": in.PaymentMethod})
	}

	totals := ComputeTotals(c).Rounded()
	o, existed, err := s.Orders.Place(ctx, orders.PlaceInput{
		ExternalID:    in.ExternalID,
		UserID:        userID,
		RestaurantID:  c.RestaurantID,
		AddressID:     in.AddressID,
		Items:         c.Items,
		TotalAmount:   totals.Total,
		PaymentMethod: in.PaymentMethod,
		TraceID:       in.TraceID,
	})
	if err != nil {
		return Result{}, err
	}
	if existed {
		// lost a race with a concurrent checkout of the same key
		return s.replay(userID, o)
	}

	ctx = s.Log.WithOrderID(ctx, o.ID)
	version := c.Version
	if err := s.Carts.Clear(ctx, userID, &version); err != nil {
		if errors.Is(err, cart.ErrVersionConflict) {
			s.Log.Warn(ctx, "checkout.cart_changed_after_snapshot", err)
		} else {
			s.Log.Error(ctx, "checkout.cart_clear_failed", err)
		}
	}
	return Result{Order: o, Totals: totals}, nil
}

func (s *Service) replay(userID string, o orders.Order) (Result, error) {
	if o.UserID != userID {
		return Result{}, apperr.New(apperr.CodeConflict, "external_id already used")
	}
	return Result{Order: o, Totals: replayTotals(o), Replayed: true}, nil
}

// replayTotals rebuilds the breakdown from the item snapshot. The charged
// total stays the amount frozen on the order.
func replayTotals(o orders.Order) Totals {
	t := ComputeTotals(&cart.Cart{RestaurantID: o.RestaurantID, Items: o.Items}).Rounded()
	t.Total = o.TotalAmount
	return t
}
