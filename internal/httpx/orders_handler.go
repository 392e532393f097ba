package httpx

import (
	"net/http"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/checkout"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HeaderIdempotencyKey may carry the checkout external_id instead of the body.
const HeaderIdempotencyKey = "Idempotency-Key"

type checkoutReq struct {
	ExternalID    string               `json:"external_id" validate:"max=100"`
	AddressID     string               `json:"address_id"`
	PaymentMethod orders.PaymentMethod `json:"payment_method" validate:"required,oneof=card cash upi"`
}

type updateStatusReq struct {
	Status orders.Status `json:"status" validate:"required"`
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.ExternalID == "" {
		req.ExternalID = strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	res, err := h.Checkout.Checkout(ctx, userID(r), checkout.Input{
		ExternalID:    req.ExternalID,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		TraceID:       middleware.GetReqID(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	code := http.StatusCreated
	if res.Replayed {
		code = http.StatusOK
	}
	writeJSON(w, code, res)
}

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	list, err := h.Orders.ListByUser(ctx, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	o, err := h.Orders.GetForUser(ctx, userID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	o, err := h.Orders.Cancel(ctx, userID(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// updateOrderStatus is reserved for the owner of the order's restaurant.
func (h *handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	id := chi.URLParam(r, "id")
	cur, err := h.Orders.Get(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.requireOwner(r, cur.RestaurantID); err != nil {
		h.fail(w, r, err)
		return
	}
	o, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *handler) listRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	rid := chi.URLParam(r, "id")
	if err := h.requireOwner(r, rid); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	list, err := h.Orders.ListByRestaurant(ctx, rid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) requireOwner(r *http.Request, restaurantID string) error {
	ctx, cancel := reqCtx(r)
	defer cancel()
	rest, err := h.Restaurants.Get(ctx, restaurantID)
	if err != nil {
		return err
	}
	if rest.OwnerID != userID(r) {
		return apperr.New(apperr.CodeForbidden, "not the restaurant owner")
	}
	return nil
}
