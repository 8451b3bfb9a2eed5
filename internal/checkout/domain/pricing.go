// Package domain computes the checkout-time display figures. The
// authoritative total is whatever the order-creation response returns;
// these numbers only have to match what the marketplace will charge.
package domain

import (
	"math"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
)

const (
	// DefaultDeliveryFee applies when the restaurant supplies none.
	DefaultDeliveryFee = 40.0
	// TaxRate is applied to the item subtotal.
	TaxRate = 0.05
)

// Quote is the client-side bill breakdown shown before placing an
// order.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// QuoteCart prices the cart: subtotal straight from the cart total,
// the restaurant's delivery fee (or the default when absent), and 5%
// tax on the subtotal.
func QuoteCart(c cart.Cart) Quote {
	fee := DefaultDeliveryFee
	if c.Restaurant != nil && c.Restaurant.DeliveryFee > 0 {
		fee = c.Restaurant.DeliveryFee
	}
	sub := c.Total
	tax := round2(sub * TaxRate)
	return Quote{
		Subtotal:    sub,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       round2(sub + fee + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
