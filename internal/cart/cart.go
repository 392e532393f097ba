package cart

import (
	"github.com/ariefcatur/go-food-orders/internal/restaurants"
	"github.com/shopspring/decimal"
)

type Item struct {
	Item     restaurants.MenuItem `json:"item"`
	Quantity int                  `json:"quantity"`
}

// Cart holds items from exactly one restaurant. A nil *Cart is the absent
// cart; an empty cart is never produced by the operations below.
type Cart struct {
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	Items          []Item `json:"items"`
	Version        int64  `json:"version"`
}

// Add returns the cart with qty of item added. An absent cart, or one from a
// different restaurant, is replaced by a cart holding only this item.
func (c *Cart) Add(restaurantID, restaurantName string, item restaurants.MenuItem, qty int) *Cart {
	if c == nil || c.RestaurantID != restaurantID {
		return &Cart{
			RestaurantID:   restaurantID,
			RestaurantName: restaurantName,
			Items:          []Item{{Item: item, Quantity: qty}},
			Version:        c.version(),
		}
	}
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].Item.ID == item.ID {
			next.Items[i].Quantity += qty
			return next
		}
	}
	next.Items = append(next.Items, Item{Item: item, Quantity: qty})
	return next
}

// Remove drops itemID. Removing the last item yields the absent cart.
func (c *Cart) Remove(itemID string) *Cart {
	if c == nil {
		return nil
	}
	next := c.clone()
	next.Items = next.Items[:0]
	for _, it := range c.Items {
		if it.Item.ID != itemID {
			next.Items = append(next.Items, it)
		}
	}
	if len(next.Items) == 0 {
		return nil
	}
	return next
}

// UpdateQuantity sets the exact quantity of itemID; qty <= 0 removes it.
func (c *Cart) UpdateQuantity(itemID string, qty int) *Cart {
	if c == nil {
		return nil
	}
	if qty <= 0 {
		return c.Remove(itemID)
	}
	next := c.clone()
	for i := range next.Items {
		if next.Items[i].Item.ID == itemID {
			next.Items[i].Quantity = qty
		}
	}
	return next
}

func (c *Cart) Clear() *Cart { return nil }

func (c *Cart) IsEmpty() bool { return c == nil || len(c.Items) == 0 }

// Quantity of itemID, 0 when absent.
func (c *Cart) Quantity(itemID string) int {
	if c == nil {
		return 0
	}
	for _, it := range c.Items {
		if it.Item.ID == itemID {
			return it.Quantity
		}
	}
	return 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	if c == nil {
		return sum
	}
	for _, it := range c.Items {
		sum = sum.Add(it.Item.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func (c *Cart) version() int64 {
	if c == nil {
		return 0
	}
	return c.Version
}

func (c *Cart) clone() *Cart {
	next := *c
	next.Items = make([]Item, len(c.Items), len(c.Items)+1)
	copy(next.Items, c.Items)
	return &next
}
