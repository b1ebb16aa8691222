package services

import (
	"fmt"
	"math"

	"tindibandi/models"
)

// Pricing turns a cart into subtotal/tax/total. Pure computation; the tax
// rate comes from config at construction time, never from the environment.
type Pricing struct {
	taxRate float64
}

func NewPricing(taxRate float64) *Pricing {
	return &Pricing{taxRate: taxRate}
}

func (p *Pricing) TaxRate() float64 { return p.taxRate }

type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Round2 rounds to two decimal places, the only rounding rule in the system.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ValidateCart checks structure and bounds before anything is computed or
// persisted. Messages match what the frontend already expects.
func ValidateCart(cart []models.OrderItem) error {
	if len(cart) == 0 {
		return wrapKind(ErrInvalidCartItem, "Cart is empty or invalid")
	}

	for _, item := range cart {
		if item.ID == "" || item.Name == "" {
			return wrapKind(ErrInvalidCartItem,
				"Invalid cart item structure. Missing required fields: id, name, price, qty")
		}
		if item.Qty < 1 || item.Qty > 20 {
			return wrapKind(ErrInvalidCartItem,
				fmt.Sprintf("Invalid quantity for %s. Must be between 1 and 20", item.Name))
		}
		if item.Price < 0 {
			return wrapKind(ErrInvalidCartItem,
				fmt.Sprintf("Invalid price for %s", item.Name))
		}
	}

	return nil
}

// Totals computes subtotal/tax/total. The subtotal is summed unrounded so
// per-line rounding cannot accumulate; only tax and total are rounded.
func (p *Pricing) Totals(cart []models.OrderItem) (Totals, error) {
	if err := ValidateCart(cart); err != nil {
		return Totals{}, err
	}

	subtotal := 0.0
	for _, item := range cart {
		subtotal += item.Price * float64(item.Qty)
	}

	tax := Round2(subtotal * p.taxRate)
	total := Round2(subtotal + tax)

	return Totals{Subtotal: subtotal, Tax: tax, Total: total}, nil
}
