package restaurants

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
)

type Repository interface {
	List(ctx context.Context, f FilterOptions) ([]Restaurant, error)
	Get(ctx context.Context, id string) (Restaurant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Restaurant, error)
	MenuItems(ctx context.Context, restaurantID string) ([]MenuItem, error)
	MenuItem(ctx context.Context, restaurantID, itemID string) (MenuItem, error)

	CreateRestaurant(ctx context.Context, r Restaurant) (Restaurant, error)
	UpdateRestaurant(ctx context.Context, r Restaurant) (Restaurant, error)
	SetActive(ctx context.Context, id string, active bool) error
	CreateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error)
	UpdateMenuItem(ctx context.Context, m MenuItem) (MenuItem, error)
	SetMenuItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (MenuItem, error)
	DeleteMenuItem(ctx context.Context, restaurantID, itemID string) error
}

type Service struct {
	Repo Repository
}

// SearchParams pairs the filters with an optional location constraint.
type SearchParams struct {
	Filters  FilterOptions
	Near     *Point
	RadiusKm float64
}

// Search returns the active restaurants matching p, never nil.
func (s *Service) Search(ctx context.Context, p SearchParams) ([]Restaurant, error) {
	if err := p.Filters.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.CodeValidation, err, err.Error())
	}
	rs, err := s.Repo.List(ctx, p.Filters)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "list restaurants")
	}
	// the store narrows the rows; Apply has the final say on matching and order
	rs = p.Filters.Apply(rs)
	if p.Near != nil {
		rs = Nearby(rs, *p.Near, p.RadiusKm)
	}
	return rs, nil
}

func (s *Service) Get(ctx context.Context, id string) (Restaurant, error) {
	r, err := s.Repo.Get(ctx, id)
	return r, mapErr(err, "get restaurant")
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Restaurant, error) {
	rs, err := s.Repo.ListByOwner(ctx, ownerID)
	return rs, mapErr(err, "list owner restaurants")
}

func (s *Service) Menu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	if _, err := s.Get(ctx, restaurantID); err != nil {
		return nil, err
	}
	items, err := s.Repo.MenuItems(ctx, restaurantID)
	return items, mapErr(err, "list menu")
}

// MenuItem resolves an item together with its restaurant.
func (s *Service) MenuItem(ctx context.Context, restaurantID, itemID string) (Restaurant, MenuItem, error) {
	r, err := s.Get(ctx, restaurantID)
	if err != nil {
		return Restaurant{}, MenuItem{}, err
	}
	m, err := s.Repo.MenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return Restaurant{}, MenuItem{}, mapErr(err, "get menu item")
	}
	return r, m, nil
}

func mapErr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMenuItemNotFound):
		return apperr.Wrap(apperr.CodeNotFound, err, err.Error())
	default:
		return apperr.Wrap(apperr.CodeDependency, err, op)
	}
}
