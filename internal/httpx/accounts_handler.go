package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-food-orders/internal/addresses"
	"github.com/ariefcatur/go-food-orders/internal/reviews"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	list, err := h.Addresses.List(ctx, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var in addresses.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	a, err := h.Addresses.Create(ctx, userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var in addresses.UpdateInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	a, err := h.Addresses.Update(ctx, userID(r), chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Addresses.Delete(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	list, err := h.Reviews.ListByRestaurant(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) listMyReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	list, err := h.Reviews.ListByUser(ctx, userID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handler) createReview(w http.ResponseWriter, r *http.Request) {
	var in reviews.CreateInput
	if err := decodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	rv, err := h.Reviews.Create(ctx, userID(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Reviews.Delete(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
