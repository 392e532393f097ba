package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-food-orders/internal/restaurants"
	"github.com/go-chi/chi/v5"
)

// Owner routes. The restaurant service checks that the caller owns the
// restaurant before any write.

type availabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

func (h *handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var in restaurants.RestaurantInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	rest, err := h.Restaurants.CreateRestaurant(ctx, userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	var in restaurants.RestaurantInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	rest, err := h.Restaurants.UpdateRestaurant(ctx, userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *handler) deactivateRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Restaurants.DeactivateRestaurant(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var in restaurants.MenuItemInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	m, err := h.Restaurants.CreateMenuItem(ctx, userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in restaurants.MenuItemInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	m, err := h.Restaurants.UpdateMenuItem(ctx, userID(r), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) setMenuItemAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	m, err := h.Restaurants.SetMenuItemAvailability(ctx, userID(r), chi.URLParam(r, "id"),
		chi.URLParam(r, "itemID"), *req.IsAvailable)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Restaurants.DeleteMenuItem(ctx, userID(r), chi.URLParam(r, "id"), chi.URLParam(r, "itemID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
