package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tindibandi/config"
	"tindibandi/repository"
	"tindibandi/services"
)

type MenuController struct {
	menu *services.MenuService
	cfg  *config.Config
}

func NewMenuController(menu *services.MenuService, cfg *config.Config) *MenuController {
	return &MenuController{menu: menu, cfg: cfg}
}

func boolQuery(c *gin.Context, key string) *bool {
	value := c.Query(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil
	}
	return &b
}

// List handles GET /api/menu with optional category/veg/popular/available/
// search filters. Returns a plain array like the frontend expects.
func (ctl *MenuController) List(c *gin.Context) {
	filter := repository.MenuFilter{
		Category:  c.Query("category"),
		Veg:       boolQuery(c, "veg"),
		Popular:   boolQuery(c, "popular"),
		Available: boolQuery(c, "available"),
		Search:    c.Query("search"),
	}

	items, err := ctl.menu.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch menu items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// Categories handles GET /api/menu/categories.
func (ctl *MenuController) Categories(c *gin.Context) {
	categories, err := ctl.menu.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}
