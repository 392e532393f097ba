package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/restaurants"
	"github.com/go-chi/chi/v5"
)

func (h *handler) searchRestaurants(w http.ResponseWriter, r *http.Request) {
	p, err := parseSearch(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	rs, err := h.Restaurants.Search(ctx, p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	rest, err := h.Restaurants.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *handler) getMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	items, err := h.Restaurants.Menu(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handler) listOwnerRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	rs, err := h.Restaurants.ListByOwner(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *handler) getFilters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	f, err := h.Filters.Get(ctx, userID(r))
	if err != nil {
		h.fail(w, r, apperr.Wrap(apperr.CodeDependency, err, "load filters"))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *handler) putFilters(w http.ResponseWriter, r *http.Request) {
	var f restaurants.FilterOptions
	if err := decodeJSON(r, &f); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := f.Validate(); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.CodeValidation, err, err.Error()))
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Filters.Set(ctx, userID(r), f); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.CodeDependency, err, "save filters"))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *handler) resetFilters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Filters.Reset(ctx, userID(r)); err != nil {
		h.fail(w, r, apperr.Wrap(apperr.CodeDependency, err, "reset filters"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) searchWithSavedFilters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	f, err := h.Filters.Get(ctx, userID(r))
	if err != nil {
		h.fail(w, r, apperr.Wrap(apperr.CodeDependency, err, "load filters"))
		return
	}
	rs, err := h.Restaurants.Search(ctx, restaurants.SearchParams{Filters: f})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

// parseSearch reads the restaurant query string. Cuisines may repeat or be
// comma separated; a lone price bound is completed with the tier limit.
func parseSearch(q url.Values) (restaurants.SearchParams, error) {
	var p restaurants.SearchParams
	f := &p.Filters

	for _, v := range q["cuisine"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.CuisineType = append(f.CuisineType, c)
			}
		}
	}

	lo, hi := q.Get("price_min"), q.Get("price_max")
	if lo != "" || hi != "" {
		minTier, err := intParam("price_min", lo, 1)
		if err != nil {
			return p, err
		}
		maxTier, err := intParam("price_max", hi, 4)
		if err != nil {
			return p, err
		}
		f.PriceRange = []int{minTier, maxTier}
	}

	var err error
	if f.Rating, err = floatParam("rating", q.Get("rating"), 0); err != nil {
		return p, err
	}
	if f.DeliveryTime, err = intParam("delivery_time", q.Get("delivery_time"), 0); err != nil {
		return p, err
	}
	if v := q.Get("vegetarian"); v != "" {
		if f.IsVegetarian, err = strconv.ParseBool(v); err != nil {
			return p, badParam("vegetarian", v)
		}
	}
	f.SortBy = restaurants.SortBy(q.Get("sort_by"))
	f.Search = q.Get("q")

	if near := q.Get("near"); near != "" {
		lat, lng, ok := strings.Cut(near, ",")
		if !ok {
			return p, badParam("near", near)
		}
		pt := restaurants.Point{}
		if pt.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
			return p, badParam("near", near)
		}
		if pt.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
			return p, badParam("near", near)
		}
		p.Near = &pt
		if p.RadiusKm, err = floatParam("radius_km", q.Get("radius_km"), 0); err != nil {
			return p, err
		}
	}
	return p, nil
}

func intParam(name, v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badParam(name, v)
	}
	return n, nil
}

func floatParam(name, v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, badParam(name, v)
	}
	return n, nil
}

func badParam(name, v string) error {
	return apperr.New(apperr.CodeValidation, "invalid query parameter").
		WithDetails(map[string]any{name: v})
}
