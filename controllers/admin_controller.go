package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/config"
	"tindibandi/models"
	"tindibandi/repository"
	"tindibandi/services"
	"tindibandi/utils"
)

type AdminController struct {
	orders OrderAPI
	menu   *services.MenuService
	cfg    *config.Config
}

func NewAdminController(orders OrderAPI, menu *services.MenuService, cfg *config.Config) *AdminController {
	return &AdminController{orders: orders, menu: menu, cfg: cfg}
}

// Login handles POST /api/admin/login with the shared admin secret.
func (ctl *AdminController) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Password != ctl.cfg.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := utils.GenerateAdminToken(ctl.cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// CreateMenuItem handles POST /api/admin/menu.
func (ctl *AdminController) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields: name, category, price, img",
		})
		return
	}

	if err := ctl.menu.Create(c.Request.Context(), &item); err != nil {
		if errors.Is(err, repository.ErrDuplicateMenuItem) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Menu item with this name already exists in this category",
			})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to create menu item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Menu item created successfully",
		"data":    item,
	})
}

// ListMenuItems handles GET /api/admin/menu: everything, unfiltered.
func (ctl *AdminController) ListMenuItems(c *gin.Context) {
	items, err := ctl.menu.List(c.Request.Context(), repository.MenuFilter{})
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch menu items")
		return
	}
	c.JSON(http.StatusOK, items)
}

func parseObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid item ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// UpdateMenuItem handles PUT /api/admin/menu/:id.
func (ctl *AdminController) UpdateMenuItem(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	updated, err := ctl.menu.Update(c.Request.Context(), id, &item)
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to update menu item")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteMenuItem handles DELETE /api/admin/menu/:id.
func (ctl *AdminController) DeleteMenuItem(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	if err := ctl.menu.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to delete menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted successfully"})
}

// Categories handles GET /api/admin/categories.
func (ctl *AdminController) Categories(c *gin.Context) {
	categories, err := ctl.menu.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// ListOrders handles GET /api/admin/orders with pagination and status
// filtering.
func (ctl *AdminController) ListOrders(c *gin.Context) {
	opts := listOptionsFromQuery(c, 50)
	orders, pagination, err := ctl.orders.ListAll(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": pagination,
	})
}

// UpdateOrderStatus handles PUT /api/admin/orders/:orderId/status.
func (ctl *AdminController) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Status is required"})
		return
	}

	order, err := ctl.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}

// Stats handles GET /api/admin/stats.
func (ctl *AdminController) Stats(c *gin.Context) {
	orderStats, err := ctl.orders.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch statistics")
		return
	}

	menuCount, err := ctl.menu.Count(c.Request.Context())
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders": gin.H{
				"total": orderStats.TotalOrders,
				"today": orderStats.TodayOrders,
			},
			"revenue": gin.H{
				"total": orderStats.TotalRevenue,
				"today": orderStats.TodayRevenue,
			},
			"menuItems":      menuCount,
			"ordersByStatus": orderStats.OrdersByStatus,
			"ordersPerDay":   orderStats.OrdersPerDay,
		},
	})
}
