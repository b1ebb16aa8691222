package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tindibandi/database"
	"tindibandi/models"
)

var (
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrDuplicateMenuItem = errors.New("menu item already exists in this category")
)

type MenuFilter struct {
	Category  string
	Veg       *bool
	Popular   *bool
	Available *bool
	Search    string
}

type MenuRepository interface {
	List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	FindByNameAndCategory(ctx context.Context, name, category string) (*models.MenuItem, error)
	Insert(ctx context.Context, item *models.MenuItem) error
	Update(ctx context.Context, id primitive.ObjectID, item *models.MenuItem) (*models.MenuItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, items []models.MenuItem) error
}

type mongoMenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) MenuRepository {
	return &mongoMenuRepository{collection: db.Collection(database.MenuCollection)}
}

func (m *mongoMenuRepository) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Veg != nil {
		query["veg"] = *filter.Veg
	}
	if filter.Popular != nil {
		query["popular"] = *filter.Popular
	}
	if filter.Available != nil {
		query["available"] = *filter.Available
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := m.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

func (m *mongoMenuRepository) FindByNameAndCategory(ctx context.Context, name, category string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := m.collection.FindOne(ctx, bson.M{"name": name, "category": category}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return &item, nil
}

func (m *mongoMenuRepository) Insert(ctx context.Context, item *models.MenuItem) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	res, err := m.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.MongoID = oid
	}
	return nil
}

func (m *mongoMenuRepository) Update(ctx context.Context, id primitive.ObjectID, item *models.MenuItem) (*models.MenuItem, error) {
	update := bson.M{"$set": bson.M{
		"name":        item.Name,
		"category":    item.Category,
		"price":       item.Price,
		"img":         item.Img,
		"veg":         item.Veg,
		"spicy":       item.Spicy,
		"popular":     item.Popular,
		"description": item.Description,
		"available":   item.Available,
		"updatedAt":   time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.MenuItem
	err := m.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return &updated, nil
}

func (m *mongoMenuRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func (m *mongoMenuRepository) Categories(ctx context.Context) ([]string, error) {
	raw, err := m.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	categories := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (m *mongoMenuRepository) Count(ctx context.Context) (int64, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}

func (m *mongoMenuRepository) InsertMany(ctx context.Context, items []models.MenuItem) error {
	docs := make([]interface{}, 0, len(items))
	now := time.Now()
	for i := range items {
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		docs = append(docs, items[i])
	}

	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to seed menu items: %w", err)
	}
	return nil
}
