package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/config"
	"tindibandi/middlewares"
	"tindibandi/models"
	"tindibandi/repository"
	"tindibandi/services"
)

// OrderAPI is the slice of the order service the HTTP layer needs.
type OrderAPI interface {
	Checkout(ctx context.Context, userID primitive.ObjectID, username string, req models.CheckoutRequest) (*models.OrderSummary, error)
	GetStatus(ctx context.Context, userID primitive.ObjectID, orderID int64) (*models.OrderStatusInfo, error)
	Rate(ctx context.Context, userID primitive.ObjectID, orderID int64, rating string) (string, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (*models.Order, error)
	ListForOwner(ctx context.Context, userID primitive.ObjectID, opts services.ListOptions) ([]models.Order, models.Pagination, error)
	ListAll(ctx context.Context, opts services.ListOptions) ([]models.Order, models.Pagination, error)
	Stats(ctx context.Context) (*repository.OrderStats, error)
}

type OrderController struct {
	orders OrderAPI
	cfg    *config.Config
}

func NewOrderController(orders OrderAPI, cfg *config.Config) *OrderController {
	return &OrderController{orders: orders, cfg: cfg}
}

func parseOrderID(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid order ID"})
		return 0, false
	}
	return orderID, true
}

func listOptionsFromQuery(c *gin.Context, defaultLimit int) services.ListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	return services.ListOptions{
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
		SortBy:   c.DefaultQuery("sortBy", "createdAt"),
		SortDesc: c.DefaultQuery("order", "desc") == "desc",
	}
}

// Checkout handles POST /api/order/checkout.
func (ctl *OrderController) Checkout(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("checkout", ok)
	}()

	userID, username, ok := currentUser(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Cart is empty or invalid"})
		return
	}

	summary, err := ctl.orders.Checkout(c.Request.Context(), userID, username, req)
	if err != nil {
		if isInconsistentTotals(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Order validation failed",
				"details": []string{err.Error()},
			})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Internal server error during checkout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"data":    summary,
	})
}

// GetStatus handles GET /api/order/:orderId/status.
func (ctl *OrderController) GetStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("status", ok)
	}()

	userID, _, ok := currentUser(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	info, err := ctl.orders.GetStatus(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to fetch order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

// Rate handles POST /api/order/:orderId/rate.
func (ctl *OrderController) Rate(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("rate", ok)
	}()

	userID, _, ok := currentUser(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		Rating string `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Rating is required"})
		return
	}

	rating, err := ctl.orders.Rate(c.Request.Context(), userID, orderID, req.Rating)
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Failed to submit rating")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thanks for your rating!",
		"data":    gin.H{"orderId": orderID, "rating": rating},
	})
}

// ListUserOrders handles GET /api/order/user-orders.
func (ctl *OrderController) ListUserOrders(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list", ok)
	}()

	userID, _, ok := currentUser(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	opts := listOptionsFromQuery(c, 20)
	orders, pagination, err := ctl.orders.ListForOwner(c.Request.Context(), userID, opts)
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

// ListAll handles GET /api/order/all. Legacy admin/debug endpoint: plain
// array, newest first, no envelope.
func (ctl *OrderController) ListAll(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("list_all", ok)
	}()

	opts := listOptionsFromQuery(c, config.MaxPageSize)
	orders, _, err := ctl.orders.ListAll(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PUT /api/order/:orderId/status, used by the admin
// panel and the status progression automation. Not owner-scoped.
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	defer func() {
		ok := c.Writer.Status() >= 200 && c.Writer.Status() < 300
		middlewares.RecordOrderOperation("update_status", ok)
	}()

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
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
		"data":    gin.H{"orderId": order.OrderID, "status": order.Status},
	})
}
