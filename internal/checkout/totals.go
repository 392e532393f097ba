package checkout

import (
	"github.com/ariefcatur/go-food-orders/internal/cart"
	"github.com/shopspring/decimal"
)

var (
	TaxRate     = decimal.RequireFromString("0.10")
	DeliveryFee = decimal.RequireFromString("2.99")
)

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotals is exact; callers round at the boundary. An absent or empty
// cart costs nothing, delivery included.
func ComputeTotals(c *cart.Cart) Totals {
	sub := c.Subtotal()
	t := Totals{Subtotal: sub, Tax: sub.Mul(TaxRate), DeliveryFee: decimal.Zero}
	if sub.IsPositive() {
		t.DeliveryFee = DeliveryFee
	}
	t.Total = t.Subtotal.Add(t.Tax).Add(t.DeliveryFee)
	return t
}

// Rounded returns the totals in cents as shown to the user.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:    t.Subtotal.Round(2),
		Tax:         t.Tax.Round(2),
		DeliveryFee: t.DeliveryFee.Round(2),
		Total:       t.Total.Round(2),
	}
}
