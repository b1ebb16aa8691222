package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tindibandi/models"
)

func TestTotals_TeaScenario(t *testing.T) {
	pricing := NewPricing(0.08)

	cart := []models.OrderItem{
		{ID: "x1", Name: "Tea", Price: 50, Qty: 2},
	}

	totals, err := pricing.Totals(cart)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, totals.Subtotal, 0.01)
	assert.InDelta(t, 8.0, totals.Tax, 0.01)
	assert.InDelta(t, 108.0, totals.Total, 0.01)
}

func TestTotals_MultipleItems(t *testing.T) {
	pricing := NewPricing(0.08)

	cart := []models.OrderItem{
		{ID: "m1", Name: "Chicken Biryani", Price: 280, Qty: 1},
		{ID: "s1", Name: "Paneer Tikka", Price: 180, Qty: 2},
		{ID: "b1", Name: "Mango Lassi", Price: 80, Qty: 3},
	}

	totals, err := pricing.Totals(cart)
	require.NoError(t, err)
	assert.InDelta(t, 880.0, totals.Subtotal, 0.01)
	assert.InDelta(t, Round2(880*0.08), totals.Tax, 0.001)
	assert.InDelta(t, totals.Subtotal+totals.Tax, totals.Total, 0.01)
}

func TestTotals_NoPerLineRounding(t *testing.T) {
	// Fractional prices must be summed before any rounding happens.
	pricing := NewPricing(0.08)

	cart := []models.OrderItem{
		{ID: "a", Name: "A", Price: 10.005, Qty: 1},
		{ID: "b", Name: "B", Price: 10.005, Qty: 1},
	}

	totals, err := pricing.Totals(cart)
	require.NoError(t, err)
	assert.InDelta(t, 20.01, totals.Subtotal, 0.0001)
}

func TestTotals_ZeroPriceItem(t *testing.T) {
	pricing := NewPricing(0.08)

	totals, err := pricing.Totals([]models.OrderItem{
		{ID: "free", Name: "Free Sample", Price: 0, Qty: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, totals.Total)
}

func TestValidateCart_Empty(t *testing.T) {
	err := ValidateCart(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCartItem))
	assert.Equal(t, "Cart is empty or invalid", err.Error())
}

func TestValidateCart_Bounds(t *testing.T) {
	tests := []struct {
		name string
		item models.OrderItem
	}{
		{"missing id", models.OrderItem{Name: "Tea", Price: 50, Qty: 1}},
		{"missing name", models.OrderItem{ID: "x1", Price: 50, Qty: 1}},
		{"zero quantity", models.OrderItem{ID: "x1", Name: "Tea", Price: 50, Qty: 0}},
		{"quantity too high", models.OrderItem{ID: "x1", Name: "Tea", Price: 50, Qty: 21}},
		{"negative price", models.OrderItem{ID: "x1", Name: "Tea", Price: -1, Qty: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCart([]models.OrderItem{tt.item})
			assert.True(t, errors.Is(err, ErrInvalidCartItem))
		})
	}
}

func TestValidateCart_QuantityBoundaries(t *testing.T) {
	ok := []models.OrderItem{{ID: "x1", Name: "Tea", Price: 50, Qty: 1}}
	assert.NoError(t, ValidateCart(ok))

	ok[0].Qty = 20
	assert.NoError(t, ValidateCart(ok))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 8.0, Round2(8.0))
	assert.Equal(t, 8.0, Round2(7.999))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 108.0, Round2(107.99999999))
}
