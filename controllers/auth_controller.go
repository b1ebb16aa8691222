package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tindibandi/config"
	"tindibandi/models"
	"tindibandi/repository"
	"tindibandi/services"
	"tindibandi/utils"
)

type AuthController struct {
	users *services.UserService
	cfg   *config.Config
}

func NewAuthController(users *services.UserService, cfg *config.Config) *AuthController {
	return &AuthController{users: users, cfg: cfg}
}

// Register handles POST /api/auth/register.
func (ctl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := ctl.users.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Internal server error during registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully!",
		"user":    user.Profile(),
	})
}

// Login handles POST /api/auth/login.
func (ctl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password required"})
		return
	}

	user, err := ctl.users.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Internal server error during login")
		return
	}

	token, err := utils.GenerateToken(ctl.cfg.JWTSecret, user.MongoID, user.Username, user.Email)
	if err != nil {
		respondError(c, err, ctl.cfg.IsProduction(), "Internal server error during login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    user.Profile(),
		"message": "Login successful",
	})
}

// Profile handles GET /api/auth/profile.
func (ctl *AuthController) Profile(c *gin.Context) {
	_, username, ok := currentUser(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	user, err := ctl.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Profile()})
}

// UpdateProfile handles PUT /api/auth/profile.
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	_, username, ok := currentUser(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := ctl.users.UpdateProfile(c.Request.Context(), username, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, err, ctl.cfg.IsProduction(), "Internal server error during profile update")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user.Profile(),
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client
// just drops its copy.
func (ctl *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
