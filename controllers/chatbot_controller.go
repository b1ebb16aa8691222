package controllers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

var (
	veganPattern    = regexp.MustCompile(`(?i)vegan`)
	discountPattern = regexp.MustCompile(`(?i)discount`)
)

// ChatbotReply answers a message with a canned suggestion.
func ChatbotReply(message string) string {
	switch {
	case veganPattern.MatchString(message):
		return "Try our Vegan Salad!"
	case discountPattern.MatchString(message):
		return "Use code FOODIE10 for 10% off!"
	default:
		return "Can I help you pick something tasty?"
	}
}

// Chatbot handles POST /api/chatbot.
func Chatbot(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"reply": "Please send a valid message!"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": ChatbotReply(req.Message)})
}
