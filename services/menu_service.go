package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"tindibandi/cache"
	"tindibandi/models"
	"tindibandi/repository"
)

type MenuService struct {
	repo  repository.MenuRepository
	cache cache.MenuCache
	sfg   singleflight.Group
}

// NewMenuService wires the repository with an optional cache; a nil cache
// means every read hits the store.
func NewMenuService(repo repository.MenuRepository, c cache.MenuCache) *MenuService {
	return &MenuService{repo: repo, cache: c}
}

func filterKey(f repository.MenuFilter) string {
	parts := []string{f.Category, f.Search}
	for _, b := range []*bool{f.Veg, f.Popular, f.Available} {
		switch {
		case b == nil:
			parts = append(parts, "-")
		case *b:
			parts = append(parts, "1")
		default:
			parts = append(parts, "0")
		}
	}
	return strings.Join(parts, "|")
}

func (s *MenuService) List(ctx context.Context, filter repository.MenuFilter) ([]models.MenuItem, error) {
	if s.cache == nil {
		return s.repo.List(ctx, filter)
	}

	key := filterKey(filter)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		items, err := s.cache.Get(ctx, key)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("menu cache get error: %v", err)
		}

		items, err = s.repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), key, items); err != nil {
				log.Printf("menu cache set error: %v", err)
			}
		}()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.MenuItem), nil
}

func (s *MenuService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *MenuService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func validateMenuItem(item *models.MenuItem) error {
	if item.Name == "" || item.Category == "" || item.Price == 0 || item.Img == "" {
		return wrapKind(ErrInvalidInput, "Missing required fields: name, category, price, img")
	}
	if !models.IsValidCategory(item.Category) {
		return wrapKind(ErrInvalidInput,
			"Category must be one of: "+strings.Join(models.MenuCategories, ", "))
	}
	if item.Price < 0 || item.Price > models.MaxMenuItemPrice {
		return wrapKind(ErrInvalidInput,
			fmt.Sprintf("Price must be between 0 and %d", models.MaxMenuItemPrice))
	}
	return nil
}

func (s *MenuService) Create(ctx context.Context, item *models.MenuItem) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if err := validateMenuItem(item); err != nil {
		return err
	}

	_, err := s.repo.FindByNameAndCategory(ctx, item.Name, item.Category)
	if err == nil {
		return repository.ErrDuplicateMenuItem
	}
	if !errors.Is(err, repository.ErrMenuItemNotFound) {
		return err
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *MenuService) Update(ctx context.Context, id primitive.ObjectID, item *models.MenuItem) (*models.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, item)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return updated, nil
}

func (s *MenuService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *MenuService) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.Background()); err != nil {
		log.Printf("menu cache invalidate error: %v", err)
	}
}

// Seed populates the menu with the default items when the collection is
// empty, so a fresh deployment serves something.
func (s *MenuService) Seed(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Printf("Initializing menu with %d default items", len(defaultMenu))
	return s.repo.InsertMany(ctx, defaultMenu)
}

func boolPtr(b bool) *bool { return &b }

var defaultMenu = []models.MenuItem{
	{Name: "Paneer Tikka", Category: "Starters", Price: 180, Img: "assets/images/71nw11ca.png", Veg: boolPtr(true), Popular: true, Available: true},
	{Name: "Chicken 65", Category: "Starters", Price: 220, Img: "assets/images/etrylw4u.png", Veg: boolPtr(false), Spicy: true, Available: true},
	{Name: "Crispy Corn", Category: "Starters", Price: 130, Img: "assets/images/bymr7yuq.png", Veg: boolPtr(true), Available: true},
	{Name: "Chicken Biryani", Category: "Main Course", Price: 280, Img: "assets/images/gbks6art.png", Veg: boolPtr(false), Spicy: true, Popular: true, Available: true},
	{Name: "Paneer Butter Masala", Category: "Main Course", Price: 220, Img: "assets/images/2a5v488p.png", Veg: boolPtr(true), Available: true},
	{Name: "Veg Fried Rice", Category: "Main Course", Price: 150, Img: "assets/images/xuzv8yrn.png", Veg: boolPtr(true), Available: true},
	{Name: "Gulab Jamun", Category: "Desserts", Price: 90, Img: "assets/images/rcpwh7bs.png", Available: true},
	{Name: "Chocolate Brownie", Category: "Desserts", Price: 120, Img: "assets/images/8vmt5loo.png", Available: true},
	{Name: "Ice Cream Sundae", Category: "Desserts", Price: 140, Img: "assets/images/ja7v8blf.png", Available: true},
	{Name: "Mango Lassi", Category: "Beverages", Price: 80, Img: "assets/images/jsxflmun.png", Popular: true, Available: true},
	{Name: "Cold Coffee", Category: "Beverages", Price: 100, Img: "assets/images/8nhdyrm8.png", Available: true},
	{Name: "Fresh Lime Soda", Category: "Beverages", Price: 60, Img: "assets/images/s4krexld.png", Available: true},
}
