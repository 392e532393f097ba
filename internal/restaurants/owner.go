package restaurants

import (
	"context"
	"strings"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/google/uuid"
)

func (s *Service) CreateRestaurant(ctx context.Context, ownerID string, in RestaurantInput) (Restaurant, error) {
	r, err := in.restaurant()
	if err != nil {
		return Restaurant{}, err
	}
	r.ID = uuid.NewString()
	r.OwnerID = ownerID
	r.IsActive = true
	out, err := s.Repo.CreateRestaurant(ctx, r)
	return out, mapErr(err, "create restaurant")
}

// UpdateRestaurant replaces the owner-editable fields of restaurant id.
func (s *Service) UpdateRestaurant(ctx context.Context, ownerID, id string, in RestaurantInput) (Restaurant, error) {
	cur, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return Restaurant{}, err
	}
	next, err := in.restaurant()
	if err != nil {
		return Restaurant{}, err
	}
	next.ID, next.OwnerID, next.CreatedAt = cur.ID, cur.OwnerID, cur.CreatedAt
	next.Rating, next.IsFeatured, next.IsActive = cur.Rating, cur.IsFeatured, cur.IsActive
	out, err := s.Repo.UpdateRestaurant(ctx, next)
	return out, mapErr(err, "update restaurant")
}

// DeactivateRestaurant hides the restaurant from search and stops new carts.
// Rows stay because orders reference them.
func (s *Service) DeactivateRestaurant(ctx context.Context, ownerID, id string) error {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return err
	}
	return mapErr(s.Repo.SetActive(ctx, id, false), "deactivate restaurant")
}

func (s *Service) CreateMenuItem(ctx context.Context, ownerID, restaurantID string, in MenuItemInput) (MenuItem, error) {
	if _, err := s.owned(ctx, ownerID, restaurantID); err != nil {
		return MenuItem{}, err
	}
	m, err := in.menuItem()
	if err != nil {
		return MenuItem{}, err
	}
	m.ID = uuid.NewString()
	m.RestaurantID = restaurantID
	m.IsAvailable = in.IsAvailable == nil || *in.IsAvailable
	out, err := s.Repo.CreateMenuItem(ctx, m)
	return out, mapErr(err, "create menu item")
}

func (s *Service) UpdateMenuItem(ctx context.Context, ownerID, restaurantID, itemID string, in MenuItemInput) (MenuItem, error) {
	if _, err := s.owned(ctx, ownerID, restaurantID); err != nil {
		return MenuItem{}, err
	}
	cur, err := s.Repo.MenuItem(ctx, restaurantID, itemID)
	if err != nil {
		return MenuItem{}, mapErr(err, "get menu item")
	}
	next, err := in.menuItem()
	if err != nil {
		return MenuItem{}, err
	}
	next.ID, next.RestaurantID = cur.ID, cur.RestaurantID
	next.IsAvailable = cur.IsAvailable
	if in.IsAvailable != nil {
		next.IsAvailable = *in.IsAvailable
	}
	out, err := s.Repo.UpdateMenuItem(ctx, next)
	return out, mapErr(err, "update menu item")
}

// SetMenuItemAvailability toggles whether carts may take the item.
func (s *Service) SetMenuItemAvailability(ctx context.Context, ownerID, restaurantID, itemID string, available bool) (MenuItem, error) {
	if _, err := s.owned(ctx, ownerID, restaurantID); err != nil {
		return MenuItem{}, err
	}
	out, err := s.Repo.SetMenuItemAvailability(ctx, restaurantID, itemID, available)
	return out, mapErr(err, "update menu item")
}

func (s *Service) DeleteMenuItem(ctx context.Context, ownerID, restaurantID, itemID string) error {
	if _, err := s.owned(ctx, ownerID, restaurantID); err != nil {
		return err
	}
	return mapErr(s.Repo.DeleteMenuItem(ctx, restaurantID, itemID), "delete menu item")
}

func (s *Service) owned(ctx context.Context, ownerID, id string) (Restaurant, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return Restaurant{}, err
	}
	if r.OwnerID != ownerID {
		return Restaurant{}, apperr.New(apperr.CodeForbidden, "not the restaurant owner")
	}
	return r, nil
}

func (in RestaurantInput) restaurant() (Restaurant, error) {
	r := Restaurant{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		CuisineType:   nonNil(in.CuisineType),
		Address:       strings.TrimSpace(in.Address),
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		OpeningHours:  in.OpeningHours,
		ClosingHours:  in.ClosingHours,
		PriceRange:    in.PriceRange,
		DeliveryTime:  in.DeliveryTime,
		FeaturedImage: in.FeaturedImage,
		Images:        nonNil(in.Images),
	}
	switch {
	case r.Name == "" || r.Address == "":
		return Restaurant{}, apperr.New(apperr.CodeValidation, "name and address are required")
	case r.PriceRange < minPriceTier || r.PriceRange > maxPriceTier:
		return Restaurant{}, apperr.New(apperr.CodeValidation, "price_range must be a tier from 1 to 4").
			WithDetails(map[string]any{"price_range": r.PriceRange})
	case r.DeliveryTime < 0:
		return Restaurant{}, apperr.New(apperr.CodeValidation, "delivery_time must not be negative")
	}
	return r, nil
}

func (in MenuItemInput) menuItem() (MenuItem, error) {
	m := MenuItem{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		Category:     strings.TrimSpace(in.Category),
		Image:        in.Image,
		IsVegetarian: in.IsVegetarian || in.IsVegan,
		IsVegan:      in.IsVegan,
		Calories:     in.Calories,
		Ingredients:  nonNil(in.Ingredients),
		Featured:     in.Featured,
	}
	if m.Name == "" {
		return MenuItem{}, apperr.New(apperr.CodeValidation, "name is required")
	}
	if m.Price.IsNegative() || !m.Price.Equal(m.Price.Round(2)) {
		return MenuItem{}, apperr.New(apperr.CodeValidation, "price must be a non-negative amount in cents").
			WithDetails(map[string]any{"price": m.Price.String()})
	}
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
