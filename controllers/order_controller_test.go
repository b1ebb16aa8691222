package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/config"
	"tindibandi/middlewares"
	"tindibandi/models"
	"tindibandi/repository"
	"tindibandi/services"
)

type stubOrderAPI struct {
	summary *models.OrderSummary
	status  *models.OrderStatusInfo
	order   *models.Order
	rating  string
	err     error
}

func (s *stubOrderAPI) Checkout(context.Context, primitive.ObjectID, string, models.CheckoutRequest) (*models.OrderSummary, error) {
	return s.summary, s.err
}

func (s *stubOrderAPI) GetStatus(context.Context, primitive.ObjectID, int64) (*models.OrderStatusInfo, error) {
	return s.status, s.err
}

func (s *stubOrderAPI) Rate(context.Context, primitive.ObjectID, int64, string) (string, error) {
	return s.rating, s.err
}

func (s *stubOrderAPI) UpdateStatus(context.Context, int64, string) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderAPI) ListForOwner(context.Context, primitive.ObjectID, services.ListOptions) ([]models.Order, models.Pagination, error) {
	return nil, models.Pagination{}, s.err
}

func (s *stubOrderAPI) ListAll(context.Context, services.ListOptions) ([]models.Order, models.Pagination, error) {
	return nil, models.Pagination{}, s.err
}

func (s *stubOrderAPI) Stats(context.Context) (*repository.OrderStats, error) {
	return nil, s.err
}

func fakeAuth(userID primitive.ObjectID, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.ContextUserID, userID)
		c.Set(middlewares.ContextUsername, username)
		c.Next()
	}
}

func newOrderRouter(api OrderAPI, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Environment: "test"}
	ctl := NewOrderController(api, cfg)

	r := gin.New()
	group := r.Group("/api/order")
	if authed {
		group.Use(fakeAuth(primitive.NewObjectID(), "alice"))
	}
	group.POST("/checkout", ctl.Checkout)
	group.GET("/:orderId/status", ctl.GetStatus)
	group.POST("/:orderId/rate", ctl.Rate)
	group.PUT("/:orderId/status", ctl.UpdateStatus)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler_Created(t *testing.T) {
	api := &stubOrderAPI{summary: &models.OrderSummary{
		OrderID:               123456789012,
		Subtotal:              100,
		Tax:                   8,
		Total:                 108,
		Status:                models.StatusPreparing,
		ItemCount:             2,
		EstimatedDeliveryTime: "30-45 minutes",
	}}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodPost, "/api/order/checkout", models.CheckoutRequest{
		Cart: []models.OrderItem{{ID: "x1", Name: "Tea", Price: 50, Qty: 2}},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success bool                `json:"success"`
		Message string              `json:"message"`
		Data    models.OrderSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Order placed successfully", resp.Message)
	assert.Equal(t, int64(123456789012), resp.Data.OrderID)
}

func TestCheckoutHandler_Unauthenticated(t *testing.T) {
	r := newOrderRouter(&stubOrderAPI{}, false)
	w := doJSON(t, r, http.MethodPost, "/api/order/checkout", models.CheckoutRequest{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCheckoutHandler_InvalidCart(t *testing.T) {
	api := &stubOrderAPI{err: services.ErrInvalidCartItem}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodPost, "/api/order/checkout", models.CheckoutRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCheckoutHandler_IDExhausted(t *testing.T) {
	api := &stubOrderAPI{err: services.ErrIDExhausted}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodPost, "/api/order/checkout", models.CheckoutRequest{})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetStatusHandler_BadOrderID(t *testing.T) {
	r := newOrderRouter(&stubOrderAPI{}, true)
	w := doJSON(t, r, http.MethodGet, "/api/order/abc/status", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid order ID")
}

func TestGetStatusHandler_NotFoundOrForbidden(t *testing.T) {
	api := &stubOrderAPI{err: services.ErrNotFoundOrForbidden}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodGet, "/api/order/123456789012/status", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateHandler_InvalidState(t *testing.T) {
	api := &stubOrderAPI{err: services.ErrInvalidState}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodPost, "/api/order/123456789012/rate",
		gin.H{"rating": "🔥"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusHandler_InvalidStatus(t *testing.T) {
	api := &stubOrderAPI{err: services.ErrInvalidStatus}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodPut, "/api/order/123456789012/status",
		gin.H{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusHandler_OK(t *testing.T) {
	api := &stubOrderAPI{order: &models.Order{OrderID: 123456789012, Status: models.StatusDelivered}}
	r := newOrderRouter(api, true)

	w := doJSON(t, r, http.MethodPut, "/api/order/123456789012/status",
		gin.H{"status": models.StatusDelivered})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Order status updated successfully")
}
