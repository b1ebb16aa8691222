package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPreparing = "Preparing"
	StatusOnTheWay  = "On the Way"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// ValidStatuses is the full status enum in display order.
var ValidStatuses = []string{StatusPreparing, StatusOnTheWay, StatusDelivered, StatusCancelled}

func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsAllowedTransition reports whether an order may move from one status to
// another. Every pair of valid statuses is currently allowed; tighten here
// if a forward-only policy is ever wanted.
func IsAllowedTransition(from, to string) bool {
	return IsValidStatus(from) && IsValidStatus(to)
}

const DefaultItemImage = "/assets/images/default-food.png"

type OrderItem struct {
	ID    string  `json:"id" bson:"id"`
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`
	Qty   int     `json:"qty" bson:"qty"`
	Img   string  `json:"img" bson:"img"`
}

type DeliveryAddress struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Pincode string `json:"pincode,omitempty" bson:"pincode,omitempty"`
}

type Order struct {
	MongoID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	OrderID         int64              `json:"orderId" bson:"orderId"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	Username        string             `json:"username" bson:"username"`
	Cart            []OrderItem        `json:"cart" bson:"cart"`
	Subtotal        float64            `json:"subtotal" bson:"subtotal"`
	Tax             float64            `json:"tax" bson:"tax"`
	Total           float64            `json:"total" bson:"total"`
	Status          string             `json:"status" bson:"status"`
	Rating          string             `json:"rating,omitempty" bson:"rating,omitempty"`
	CustomerNotes   string             `json:"customerNotes,omitempty" bson:"customerNotes,omitempty"`
	DeliveryAddress *DeliveryAddress   `json:"deliveryAddress,omitempty" bson:"deliveryAddress,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ItemCount is the total quantity across all cart lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Cart {
		count += item.Qty
	}
	return count
}

type CheckoutRequest struct {
	Cart            []OrderItem      `json:"cart"`
	CustomerNotes   string           `json:"customerNotes"`
	DeliveryAddress *DeliveryAddress `json:"deliveryAddress"`
}

type OrderSummary struct {
	OrderID               int64   `json:"orderId"`
	Subtotal              float64 `json:"subtotal"`
	Tax                   float64 `json:"tax"`
	Total                 float64 `json:"total"`
	Status                string  `json:"status"`
	ItemCount             int     `json:"itemCount"`
	EstimatedDeliveryTime string  `json:"estimatedDeliveryTime"`
}

type OrderStatusInfo struct {
	OrderID   int64     `json:"orderId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"itemCount"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type OrderEvent struct {
	OrderID  int64     `json:"order_id"`
	Type     string    `json:"type"` // created, status_updated, advance_status
	Status   string    `json:"status"`
	Occurred time.Time `json:"occurred"`
}
