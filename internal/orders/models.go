package orders

import (
	"time"

	"github.com/ariefcatur/go-food-orders/internal/cart"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
	PaymentUPI  PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash || m == PaymentUPI
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Order.Items is a snapshot of the cart at placement; TotalAmount is frozen then.
type Order struct {
	ID                    string          `json:"id"`
	ExternalID            string          `json:"external_id"`
	UserID                string          `json:"user_id"`
	RestaurantID          string          `json:"restaurant_id"`
	AddressID             string          `json:"address_id"`
	Items                 []cart.Item     `json:"items"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Status                Status          `json:"status"`
	PaymentMethod         PaymentMethod   `json:"payment_method"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	DeliveryPartnerID     *string         `json:"delivery_partner_id,omitempty"`
	PlacedAt              time.Time       `json:"placed_at"`
	EstimatedDeliveryTime *time.Time      `json:"estimated_delivery_time,omitempty"`
	DeliveredAt           *time.Time      `json:"delivered_at,omitempty"`
	IsComplete            bool            `json:"is_complete"`

	Restaurant *RestaurantRef `json:"restaurant,omitempty"`
	Customer   *CustomerRef   `json:"user,omitempty"`
	Address    *AddressRef    `json:"address,omitempty"`
}

// Display-only rows joined by foreign key.
type RestaurantRef struct {
	Name          string `json:"name"`
	Address       string `json:"address,omitempty"`
	FeaturedImage string `json:"featured_image,omitempty"`
}

type CustomerRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AddressRef struct {
	Label       string `json:"label"`
	FullAddress string `json:"full_address"`
}
