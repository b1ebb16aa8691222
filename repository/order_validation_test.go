package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tindibandi/models"
)

func consistentOrder() *models.Order {
	return &models.Order{
		OrderID: 100000000001,
		Cart: []models.OrderItem{
			{ID: "x1", Name: "Tea", Price: 50, Qty: 2},
		},
		Subtotal: 100,
		Tax:      8,
		Total:    108,
		Status:   models.StatusPreparing,
	}
}

func TestValidateOrder_Consistent(t *testing.T) {
	assert.NoError(t, ValidateOrder(consistentOrder()))
}

func TestValidateOrder_EmptyCart(t *testing.T) {
	order := consistentOrder()
	order.Cart = nil
	err := ValidateOrder(order)
	assert.True(t, errors.Is(err, ErrInconsistentTotals))
}

func TestValidateOrder_SubtotalMismatch(t *testing.T) {
	order := consistentOrder()
	order.Subtotal = 95
	order.Total = 103
	err := ValidateOrder(order)
	assert.True(t, errors.Is(err, ErrInconsistentTotals))
}

func TestValidateOrder_TotalMismatch(t *testing.T) {
	order := consistentOrder()
	order.Total = 110
	err := ValidateOrder(order)
	assert.True(t, errors.Is(err, ErrInconsistentTotals))
}

func TestValidateOrder_WithinTolerance(t *testing.T) {
	order := consistentOrder()
	order.Subtotal = 100.009
	order.Total = 108.009
	assert.NoError(t, ValidateOrder(order))

	order.Subtotal = 100.02
	assert.Error(t, ValidateOrder(order))
}
