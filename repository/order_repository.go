package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tindibandi/config"
	"tindibandi/database"
	"tindibandi/models"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateOrderID   = errors.New("order id already exists")
	ErrInconsistentTotals = errors.New("order totals are inconsistent")
)

// totalsTolerance is the allowed float discrepancy when cross-checking
// stored monetary amounts.
const totalsTolerance = 0.01

type ListQuery struct {
	UserID   *primitive.ObjectID
	Status   string
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

type StatusCount struct {
	Status string `bson:"_id"`
	Count  int64  `bson:"count"`
}

type DayCount struct {
	Day     string  `bson:"_id"`
	Count   int64   `bson:"count"`
	Revenue float64 `bson:"revenue"`
}

type OrderStats struct {
	TotalOrders    int64
	TodayOrders    int64
	TotalRevenue   float64
	TodayRevenue   float64
	OrdersByStatus map[string]int64
	OrdersPerDay   []DayCount
}

type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	ExistsOrderID(ctx context.Context, orderID int64) (bool, error)
	FindByOrderID(ctx context.Context, orderID int64) (*models.Order, error)
	FindOwned(ctx context.Context, orderID int64, userID primitive.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (*models.Order, error)
	SetRating(ctx context.Context, order *models.Order, rating string) error
	List(ctx context.Context, q ListQuery) ([]models.Order, int64, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

// ValidateOrder is the single invariant check every persist goes through:
// non-empty cart, subtotal consistent with the cart lines, total consistent
// with subtotal + tax.
func ValidateOrder(order *models.Order) error {
	if len(order.Cart) == 0 {
		return fmt.Errorf("%w: cart must contain at least one item", ErrInconsistentTotals)
	}

	calculatedSubtotal := 0.0
	for _, item := range order.Cart {
		calculatedSubtotal += item.Price * float64(item.Qty)
	}
	if math.Abs(calculatedSubtotal-order.Subtotal) > totalsTolerance {
		return fmt.Errorf("%w: subtotal does not match cart items", ErrInconsistentTotals)
	}

	if math.Abs(order.Subtotal+order.Tax-order.Total) > totalsTolerance {
		return fmt.Errorf("%w: total does not match subtotal + tax", ErrInconsistentTotals)
	}

	return nil
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection(database.OrdersCollection)}
}

func (m *mongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	if err := ValidateOrder(order); err != nil {
		return err
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrderID
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.MongoID = oid
	}
	return nil
}

func (m *mongoOrderRepository) ExistsOrderID(ctx context.Context, orderID int64) (bool, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{"orderId": orderID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check order id: %w", err)
	}
	return count > 0, nil
}

func (m *mongoOrderRepository) FindByOrderID(ctx context.Context, orderID int64) (*models.Order, error) {
	return m.findOne(ctx, bson.M{"orderId": orderID})
}

func (m *mongoOrderRepository) FindOwned(ctx context.Context, orderID int64, userID primitive.ObjectID) (*models.Order, error) {
	return m.findOne(ctx, bson.M{"orderId": orderID, "userId": userID})
}

func (m *mongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := m.collection.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"orderId": orderID}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

func (m *mongoOrderRepository) SetRating(ctx context.Context, order *models.Order, rating string) error {
	// Re-save path: the invariant is re-checked even though rating itself
	// is not monetary, so a corrupt document cannot be silently re-written.
	if err := ValidateOrder(order); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"rating": rating, "updatedAt": time.Now()}}
	result, err := m.collection.UpdateOne(ctx, bson.M{"orderId": order.OrderID}, update)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrOrderNotFound
	}

	order.Rating = rating
	return nil
}

func (m *mongoOrderRepository) List(ctx context.Context, q ListQuery) ([]models.Order, int64, error) {
	filter := bson.M{}
	if q.UserID != nil {
		filter["userId"] = *q.UserID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := 1
	if q.SortDesc {
		sortOrder = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	total, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return orders, total, nil
}

func (m *mongoOrderRepository) Stats(ctx context.Context) (*OrderStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totalOrders, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	todayOrders, err := m.collection.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": today},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	totalRevenue, err := m.sumRevenue(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	todayRevenue, err := m.sumRevenue(ctx, bson.M{"createdAt": bson.M{"$gte": today}})
	if err != nil {
		return nil, err
	}

	byStatus, err := m.countByStatus(ctx)
	if err != nil {
		return nil, err
	}

	perDay, err := m.countPerDay(ctx, today.AddDate(0, 0, -6))
	if err != nil {
		return nil, err
	}

	return &OrderStats{
		TotalOrders:    totalOrders,
		TodayOrders:    todayOrders,
		TotalRevenue:   totalRevenue,
		TodayRevenue:   todayRevenue,
		OrdersByStatus: byStatus,
		OrdersPerDay:   perDay,
	}, nil
}

func (m *mongoOrderRepository) sumRevenue(ctx context.Context, match bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (m *mongoOrderRepository) countByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}
	defer cursor.Close(ctx)

	var results []StatusCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	byStatus := make(map[string]int64, len(results))
	for _, r := range results {
		byStatus[r.Status] = r.Count
	}
	return byStatus, nil
}

func (m *mongoOrderRepository) countPerDay(ctx context.Context, since time.Time) ([]DayCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily counts: %w", err)
	}
	defer cursor.Close(ctx)

	var results []DayCount
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode daily counts: %w", err)
	}
	return results, nil
}
