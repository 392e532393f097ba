package reviews

import "time"

type Review struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	OrderID      string    `json:"order_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"created_at"`

	Reviewer   string         `json:"reviewer,omitempty"`
	Restaurant *RestaurantRef `json:"restaurant,omitempty"`
}

// RestaurantRef is the restaurant summary shown next to a user's own reviews.
type RestaurantRef struct {
	Name          string `json:"name"`
	FeaturedImage string `json:"featured_image"`
}
