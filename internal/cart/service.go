package cart

import (
	"context"

	"github.com/ariefcatur/go-food-orders/internal/apperr"
	"github.com/ariefcatur/go-food-orders/internal/restaurants"
)

type MenuLookup interface {
	MenuItem(ctx context.Context, restaurantID, itemID string) (restaurants.Restaurant, restaurants.MenuItem, error)
}

type Service struct {
	Store Store
	Menu  MenuLookup
}

type AddInput struct {
	RestaurantID    string `json:"restaurant_id" validate:"required"`
	MenuItemID      string `json:"menu_item_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"min=1"`
	ConfirmReplace  bool   `json:"confirm_replace"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	c, _, err := s.Store.Load(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeDependency, err, "load cart")
	}
	return c, nil
}

// AddItem adds a menu item. Switching restaurants discards the current cart,
// so it requires ConfirmReplace; without it the cart is left unchanged.
func (s *Service) AddItem(ctx context.Context, userID string, in AddInput) (*Cart, error) {
	if in.Quantity < 1 {
		return nil, apperr.New(apperr.CodeValidation, "quantity must be at least 1")
	}
	r, item, err := s.Menu.MenuItem(ctx, in.RestaurantID, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !r.IsActive {
		return nil, apperr.New(apperr.CodeValidation, "restaurant is not taking orders").
			WithDetails(map[string]any{"restaurant_id": r.ID})
	}
	if !item.IsAvailable {
		return nil, apperr.New(apperr.CodeValidation, "menu item is not available").
			WithDetails(map[string]any{"menu_item_id": item.ID})
	}
	return s.update(ctx, userID, in.ExpectedVersion, func(cur *Cart) (*Cart, error) {
		if cur != nil && cur.RestaurantID != r.ID && !in.ConfirmReplace {
			return nil, apperr.New(apperr.CodeConflict, ErrRestaurantConflict.Message()).
				WithDetails(map[string]any{
					"restaurant_id":   cur.RestaurantID,
					"restaurant_name": cur.RestaurantName,
				})
		}
		return cur.Add(r.ID, r.Name, item, in.Quantity), nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID string, qty int, expected *int64) (*Cart, error) {
	return s.update(ctx, userID, expected, func(cur *Cart) (*Cart, error) {
		return cur.UpdateQuantity(itemID, qty), nil
	})
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string, expected *int64) (*Cart, error) {
	return s.update(ctx, userID, expected, func(cur *Cart) (*Cart, error) {
		return cur.Remove(itemID), nil
	})
}

// Clear empties the cart. With expected set, a cart changed since that
// version is kept and ErrVersionConflict returned.
func (s *Service) Clear(ctx context.Context, userID string, expected *int64) error {
	_, err := s.update(ctx, userID, expected, func(cur *Cart) (*Cart, error) {
		return cur.Clear(), nil
	})
	return err
}

func (s *Service) update(ctx context.Context, userID string, expected *int64, fn Mutation) (*Cart, error) {
	c, err := s.Store.Update(ctx, userID, expected, fn)
	if err != nil {
		if apperr.As(err) != nil {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.CodeDependency, err, "save cart")
	}
	return c, nil
}
