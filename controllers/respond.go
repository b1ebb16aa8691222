package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tindibandi/middlewares"
	"tindibandi/repository"
	"tindibandi/services"
)

// currentUser pulls the authenticated identity the auth middleware stored.
func currentUser(c *gin.Context) (primitive.ObjectID, string, bool) {
	rawID, ok := c.Get(middlewares.ContextUserID)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, ok := rawID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	username := c.GetString(middlewares.ContextUsername)
	return userID, username, true
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User not authenticated"})
}

// respondError maps service error kinds onto HTTP statuses. Unknown errors
// become opaque 500s; the detail is only shown outside production.
func respondError(c *gin.Context, err error, production bool, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidCartItem),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrNotFoundOrForbidden),
		errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrIDExhausted):
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	default:
		body := gin.H{"success": false, "error": fallback}
		if !production {
			body["message"] = err.Error()
		} else {
			body["message"] = "Please try again later"
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// isInconsistentTotals lets the checkout path downgrade a store-side
// invariant failure to a validation error, since the numbers came from the
// request's cart.
func isInconsistentTotals(err error) bool {
	return errors.Is(err, repository.ErrInconsistentTotals)
}
