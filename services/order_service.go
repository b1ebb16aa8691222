package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/config"
	"tindibandi/models"
	"tindibandi/repository"
)

// EventPublisher is the messaging seam. A nil publisher disables events,
// the same way the service runs without RabbitMQ configured.
type EventPublisher interface {
	PublishOrderEvent(orderID int64, priority int, eventType string) error
	PublishDelayedEvent(orderID int64, delay time.Duration, eventType string) error
}

type OrderService struct {
	repo          repository.OrderRepository
	pricing       *Pricing
	publisher     EventPublisher
	statusAdvance time.Duration
}

func NewOrderService(repo repository.OrderRepository, pricing *Pricing, cfg *config.Config) *OrderService {
	return &OrderService{
		repo:          repo,
		pricing:       pricing,
		statusAdvance: time.Duration(cfg.StatusAdvanceMS) * time.Millisecond,
	}
}

func (s *OrderService) SetPublisher(p EventPublisher) {
	s.publisher = p
}

type ListOptions struct {
	Status   string
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

func normalizeList(opts ListOptions, defaultLimit int) ListOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultLimit
	}
	if opts.Limit > config.MaxPageSize {
		opts.Limit = config.MaxPageSize
	}
	if opts.SortBy == "" {
		opts.SortBy = "createdAt"
		opts.SortDesc = true
	}
	return opts
}

// Checkout converts a cart into a persisted order. The generated order ID
// is checked against the store before insert, and a duplicate-key error
// from the unique index re-enters the loop, so two racing checkouts can
// never share an ID.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, username string, req models.CheckoutRequest) (*models.OrderSummary, error) {
	totals, err := s.pricing.Totals(req.Cart)
	if err != nil {
		return nil, err
	}

	cart := make([]models.OrderItem, len(req.Cart))
	copy(cart, req.Cart)
	for i := range cart {
		if cart[i].Img == "" {
			cart[i].Img = models.DefaultItemImage
		}
	}

	order := &models.Order{
		UserID:        userID,
		Username:      username,
		Cart:          cart,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Status:        models.StatusPreparing,
		CustomerNotes: strings.TrimSpace(req.CustomerNotes),
	}
	if req.DeliveryAddress != nil {
		order.DeliveryAddress = req.DeliveryAddress
	}

	inserted := false
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := NewOrderID()

		taken, err := s.repo.ExistsOrderID(ctx, id)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		order.OrderID = id
		err = s.repo.Insert(ctx, order)
		if errors.Is(err, repository.ErrDuplicateOrderID) {
			// Lost the race between check and insert; generate again.
			continue
		}
		if err != nil {
			return nil, err
		}
		inserted = true
		break
	}
	if !inserted {
		return nil, wrapKind(ErrIDExhausted, "Failed to generate unique order ID. Please try again.")
	}

	log.Printf("Order %d created successfully for user %s", order.OrderID, username)
	s.publishCreated(order)

	return &models.OrderSummary{
		OrderID:               order.OrderID,
		Subtotal:              order.Subtotal,
		Tax:                   order.Tax,
		Total:                 order.Total,
		Status:                order.Status,
		ItemCount:             order.ItemCount(),
		EstimatedDeliveryTime: "30-45 minutes",
	}, nil
}

func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}

	priority := 5
	if order.Total > 1000 {
		priority = 9
	}
	if err := s.publisher.PublishOrderEvent(order.OrderID, priority, "created"); err != nil {
		log.Printf("Failed to publish order created event: %v", err)
	}

	// Kick off the status progression; the consumer re-arms this until the
	// order reaches Delivered.
	if err := s.publisher.PublishDelayedEvent(order.OrderID, s.statusAdvance, "advance_status"); err != nil {
		log.Printf("Failed to publish status advance event: %v", err)
	}
}

// GetStatus returns the status view of an order owned by userID. Existence
// and ownership misses produce the same error.
func (s *OrderService) GetStatus(ctx context.Context, userID primitive.ObjectID, orderID int64) (*models.OrderStatusInfo, error) {
	order, err := s.repo.FindOwned(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, wrapKind(ErrNotFoundOrForbidden, "Order not found or access denied")
		}
		return nil, err
	}

	return &models.OrderStatusInfo{
		OrderID:   order.OrderID,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		Total:     order.Total,
		ItemCount: order.ItemCount(),
	}, nil
}

// Rate stores a rating on an owned, delivered order.
func (s *OrderService) Rate(ctx context.Context, userID primitive.ObjectID, orderID int64, rating string) (string, error) {
	rating = strings.TrimSpace(rating)
	if rating == "" {
		return "", wrapKind(ErrInvalidInput, "Rating is required")
	}

	order, err := s.repo.FindOwned(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return "", wrapKind(ErrNotFoundOrForbidden, "Order not found or access denied")
		}
		return "", err
	}

	if order.Status != models.StatusDelivered {
		return "", wrapKind(ErrInvalidState, "You can only rate delivered orders")
	}

	if err := s.repo.SetRating(ctx, order, rating); err != nil {
		return "", err
	}
	return order.Rating, nil
}

// UpdateStatus is the administrative transition; it is not owner-scoped.
// Setting the same status twice is a no-op beyond updatedAt.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	if !models.IsValidStatus(status) {
		return nil, wrapKind(ErrInvalidStatus,
			"Invalid status. Must be one of: "+strings.Join(models.ValidStatuses, ", "))
	}

	current, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, wrapKind(ErrNotFound, "Order not found")
		}
		return nil, err
	}

	if !models.IsAllowedTransition(current.Status, status) {
		return nil, wrapKind(ErrInvalidState,
			fmt.Sprintf("Cannot transition order from %s to %s", current.Status, status))
	}

	order, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, wrapKind(ErrNotFound, "Order not found")
		}
		return nil, err
	}

	log.Printf("Order %d status updated to: %s", orderID, status)

	if s.publisher != nil {
		priority := 5
		if status == models.StatusCancelled {
			priority = 8
		}
		if err := s.publisher.PublishOrderEvent(orderID, priority, "status_updated"); err != nil {
			log.Printf("Failed to publish order updated event: %v", err)
		}
	}

	return order, nil
}

// AdvanceStatus moves an order one step along Preparing -> On the Way ->
// Delivered and reports whether another step remains. Terminal or cancelled
// orders are left alone.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID int64) (bool, error) {
	current, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return false, wrapKind(ErrNotFound, "Order not found")
		}
		return false, err
	}

	var next string
	switch current.Status {
	case models.StatusPreparing:
		next = models.StatusOnTheWay
	case models.StatusOnTheWay:
		next = models.StatusDelivered
	default:
		return false, nil
	}

	if _, err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return false, err
	}
	log.Printf("Order %d advanced to: %s", orderID, next)

	return next != models.StatusDelivered, nil
}

func (s *OrderService) ListForOwner(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.Order, models.Pagination, error) {
	opts = normalizeList(opts, 20)
	return s.list(ctx, repository.ListQuery{
		UserID:   &userID,
		Status:   opts.Status,
		Page:     opts.Page,
		Limit:    opts.Limit,
		SortBy:   opts.SortBy,
		SortDesc: opts.SortDesc,
	})
}

func (s *OrderService) ListAll(ctx context.Context, opts ListOptions) ([]models.Order, models.Pagination, error) {
	opts = normalizeList(opts, 50)
	return s.list(ctx, repository.ListQuery{
		Status:   opts.Status,
		Page:     opts.Page,
		Limit:    opts.Limit,
		SortBy:   opts.SortBy,
		SortDesc: opts.SortDesc,
	})
}

func (s *OrderService) list(ctx context.Context, q repository.ListQuery) ([]models.Order, models.Pagination, error) {
	orders, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(q.Limit)))
	pagination := models.Pagination{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalOrders: total,
		HasNextPage: q.Page < totalPages,
		HasPrevPage: q.Page > 1,
	}
	return orders, pagination, nil
}

func (s *OrderService) Stats(ctx context.Context) (*repository.OrderStats, error) {
	return s.repo.Stats(ctx)
}
