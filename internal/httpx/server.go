package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/addresses"
	"github.com/ariefcatur/go-food-orders/internal/cart"
	"github.com/ariefcatur/go-food-orders/internal/checkout"
	"github.com/ariefcatur/go-food-orders/internal/logger"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/restaurants"
	"github.com/ariefcatur/go-food-orders/internal/reviews"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 5 * time.Second

type RestaurantService interface {
	Search(ctx context.Context, p restaurants.SearchParams) ([]restaurants.Restaurant, error)
	Get(ctx context.Context, id string) (restaurants.Restaurant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]restaurants.Restaurant, error)
	Menu(ctx context.Context, restaurantID string) ([]restaurants.MenuItem, error)

	CreateRestaurant(ctx context.Context, ownerID string, in restaurants.RestaurantInput) (restaurants.Restaurant, error)
	UpdateRestaurant(ctx context.Context, ownerID, id string, in restaurants.RestaurantInput) (restaurants.Restaurant, error)
	DeactivateRestaurant(ctx context.Context, ownerID, id string) error
	CreateMenuItem(ctx context.Context, ownerID, restaurantID string, in restaurants.MenuItemInput) (restaurants.MenuItem, error)
	UpdateMenuItem(ctx context.Context, ownerID, restaurantID, itemID string, in restaurants.MenuItemInput) (restaurants.MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, ownerID, restaurantID, itemID string, available bool) (restaurants.MenuItem, error)
	DeleteMenuItem(ctx context.Context, ownerID, restaurantID, itemID string) error
}

type FilterStore interface {
	Get(ctx context.Context, userID string) (restaurants.FilterOptions, error)
	Set(ctx context.Context, userID string, f restaurants.FilterOptions) error
	Reset(ctx context.Context, userID string) error
}

type CartService interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	AddItem(ctx context.Context, userID string, in cart.AddInput) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, qty int, expected *int64) (*cart.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string, expected *int64) (*cart.Cart, error)
	Clear(ctx context.Context, userID string, expected *int64) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, userID string, in checkout.Input) (checkout.Result, error)
}

type OrderService interface {
	Get(ctx context.Context, id string) (orders.Order, error)
	GetForUser(ctx context.Context, userID, id string) (orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]orders.Order, error)
	Cancel(ctx context.Context, userID, id string) (orders.Order, error)
	UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Order, error)
}

type AddressService interface {
	List(ctx context.Context, userID string) ([]addresses.Address, error)
	Create(ctx context.Context, userID string, in addresses.CreateInput) (addresses.Address, error)
	Update(ctx context.Context, userID, id string, in addresses.UpdateInput) (addresses.Address, error)
	Delete(ctx context.Context, userID, id string) error
}

type ReviewService interface {
	Create(ctx context.Context, userID string, in reviews.CreateInput) (reviews.Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]reviews.Review, error)
	ListByUser(ctx context.Context, userID string) ([]reviews.Review, error)
	Delete(ctx context.Context, userID, id string) error
}

type Deps struct {
	Log         *logger.Logger
	Restaurants RestaurantService
	Filters     FilterStore
	Carts       CartService
	Checkout    CheckoutService
	Orders      OrderService
	Addresses   AddressService
	Reviews     ReviewService
	// Metrics is served on /metrics; nil uses the default registry.
	Metrics prometheus.Gatherer
}

type handler struct {
	Deps
}

func NewRouter(d Deps) *chi.Mux {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Metrics == nil {
		d.Metrics = prometheus.DefaultGatherer
	}
	h := &handler{Deps: d}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{}))

	r.Get("/restaurants", h.searchRestaurants)
	r.Get("/restaurants/{id}", h.getRestaurant)
	r.Get("/restaurants/{id}/menu", h.getMenu)
	r.Get("/restaurants/{id}/reviews", h.listReviews)
	r.Get("/owners/{id}/restaurants", h.listOwnerRestaurants)

	r.Group(func(r chi.Router) {
		r.Use(requireUser(d.Log))

		r.Get("/restaurants/{id}/orders", h.listRestaurantOrders)

		r.Post("/restaurants", h.createRestaurant)
		r.Put("/restaurants/{id}", h.updateRestaurant)
		r.Delete("/restaurants/{id}", h.deactivateRestaurant)
		r.Post("/restaurants/{id}/menu", h.createMenuItem)
		r.Put("/restaurants/{id}/menu/{itemID}", h.updateMenuItem)
		r.Patch("/restaurants/{id}/menu/{itemID}/availability", h.setMenuItemAvailability)
		r.Delete("/restaurants/{id}/menu/{itemID}", h.deleteMenuItem)

		r.Get("/filters", h.getFilters)
		r.Put("/filters", h.putFilters)
		r.Delete("/filters", h.resetFilters)
		r.Get("/filters/restaurants", h.searchWithSavedFilters)

		r.Get("/cart", h.getCart)
		r.Get("/cart/totals", h.getCartTotals)
		r.Post("/cart/items", h.addCartItem)
		r.Patch("/cart/items/{itemID}", h.updateCartItem)
		r.Delete("/cart/items/{itemID}", h.removeCartItem)
		r.Delete("/cart", h.clearCart)

		r.Post("/checkout", h.checkout)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Post("/orders/{id}/cancel", h.cancelOrder)
		r.Patch("/orders/{id}/status", h.updateOrderStatus)

		r.Get("/addresses", h.listAddresses)
		r.Post("/addresses", h.createAddress)
		r.Patch("/addresses/{id}", h.updateAddress)
		r.Delete("/addresses/{id}", h.deleteAddress)

		r.Get("/reviews", h.listMyReviews)
		r.Post("/reviews", h.createReview)
		r.Delete("/reviews/{id}", h.deleteReview)
	})
	return r
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(r.Context(), h.Log, w, err)
}

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}
