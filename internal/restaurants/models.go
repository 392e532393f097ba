package restaurants

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CuisineType   []string  `json:"cuisine_type"`
	Address       string    `json:"address"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	OpeningHours  string    `json:"opening_hours"`
	ClosingHours  string    `json:"closing_hours"`
	Rating        float64   `json:"rating"`
	PriceRange    int       `json:"price_range"` // tier 1..4
	DeliveryTime  int       `json:"delivery_time"`
	FeaturedImage string    `json:"featured_image"`
	Images        []string  `json:"images"`
	IsFeatured    bool      `json:"is_featured"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Image        string          `json:"image"`
	IsVegetarian bool            `json:"is_vegetarian"`
	IsVegan      bool            `json:"is_vegan"`
	Calories     *int            `json:"calories,omitempty"`
	Ingredients  []string        `json:"ingredients,omitempty"`
	IsAvailable  bool            `json:"is_available"`
	Featured     bool            `json:"featured"`
}

// RestaurantInput is the part of a restaurant its owner edits. Rating,
// featuring and the active flag are managed elsewhere.
type RestaurantInput struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   string   `json:"description" validate:"max=2000"`
	CuisineType   []string `json:"cuisine_type" validate:"max=10,dive,required"`
	Address       string   `json:"address" validate:"required,max=500"`
	Latitude      float64  `json:"latitude" validate:"latitude"`
	Longitude     float64  `json:"longitude" validate:"longitude"`
	OpeningHours  string   `json:"opening_hours" validate:"max=20"`
	ClosingHours  string   `json:"closing_hours" validate:"max=20"`
	PriceRange    int      `json:"price_range" validate:"min=1,max=4"`
	DeliveryTime  int      `json:"delivery_time" validate:"min=0"`
	FeaturedImage string   `json:"featured_image" validate:"omitempty,url"`
	Images        []string `json:"images" validate:"max=10,dive,url"`
}

// MenuItemInput is an owner-supplied menu item. A nil IsAvailable means
// available on create and unchanged on update.
type MenuItemInput struct {
	Name         string          `json:"name" validate:"required,max=120"`
	Description  string          `json:"description" validate:"max=2000"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category" validate:"max=60"`
	Image        string          `json:"image" validate:"omitempty,url"`
	IsVegetarian bool            `json:"is_vegetarian"`
	IsVegan      bool            `json:"is_vegan"`
	Calories     *int            `json:"calories" validate:"omitempty,min=0"`
	Ingredients  []string        `json:"ingredients" validate:"max=50"`
	IsAvailable  *bool           `json:"is_available"`
	Featured     bool            `json:"featured"`
}
