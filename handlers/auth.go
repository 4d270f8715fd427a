package handlers

import (
	"errors"
	"net/http"

	"kota-backend/identity"
	"kota-backend/session"
	"kota-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Gate *session.Gate
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	sess, err := h.Gate.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, identity.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication service unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		}
		return
	}

	// The cart is returned alongside the token so the client immediately
	// sees the effect of a replayed pending action.
	c.JSON(http.StatusOK, gin.H{
		"token": sess.Token,
		"user": gin.H{
			"id":       sess.Profile.ID,
			"username": sess.Profile.Username,
			"name":     sess.Profile.Name,
			"email":    sess.Profile.Email,
		},
		"cart": h.Gate.Cart(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Gate.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	sess, ok := h.Gate.Session()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       sess.Profile.ID,
		"username": sess.Profile.Username,
		"name":     sess.Profile.Name,
		"email":    sess.Profile.Email,
	})
}
