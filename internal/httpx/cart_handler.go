package httpx

import (
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-food-orders/internal/cart"
	"github.com/ariefcatur/go-food-orders/internal/checkout"
	"github.com/go-chi/chi/v5"
)

type cartView struct {
	Cart   *cart.Cart      `json:"cart"`
	Totals checkout.Totals `json:"totals"`
}

type updateQuantityReq struct {
	Quantity        int    `json:"quantity"` // <= 0 removes the item
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func newCartView(c *cart.Cart) cartView {
	return cartView{Cart: c, Totals: checkout.ComputeTotals(c).Rounded()}
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Carts.Get(ctx, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *handler) getCartTotals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Carts.Get(ctx, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout.ComputeTotals(c).Rounded())
}

func (h *handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var in cart.AddInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Carts.AddItem(ctx, userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityReq
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Carts.UpdateQuantity(ctx, userID(r), chi.URLParam(r, "itemID"), req.Quantity, req.ExpectedVersion)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	expected, err := expectedVersion(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	c, err := h.Carts.RemoveItem(ctx, userID(r), chi.URLParam(r, "itemID"), expected)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	expected, err := expectedVersion(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Carts.Clear(ctx, userID(r), expected); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// expectedVersion reads the optional ?expected_version= guard.
func expectedVersion(r *http.Request) (*int64, error) {
	v := r.URL.Query().Get("expected_version")
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, badParam("expected_version", v)
	}
	return &n, nil
}
