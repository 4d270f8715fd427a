package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kota-backend/cart"
	"kota-backend/checkout"
	"kota-backend/models"
	"kota-backend/session"
	"kota-backend/utils"

	"github.com/gin-gonic/gin"
)

// CartHandler routes cart reads through the orchestrator (so lines come back
// enhanced and priced) and cart mutations through the session gate.
type CartHandler struct {
	Gate *session.Gate
	Orch *checkout.Orchestrator
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.Orch.View(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) GetEstimates(c *gin.Context) {
	view, err := h.Orch.View(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate estimates"})
		return
	}

	c.JSON(http.StatusOK, view.Quote)
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req struct {
		ProductID int `json:"product_id" binding:"required"`
		Quantity  int `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	h.gate(c, models.PendingAction{
		Kind:      models.ActionAdd,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	// Quantity binds through a pointer: zero is a valid value and means
	// "remove the line".
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	h.gate(c, models.PendingAction{
		Kind:      models.ActionSet,
		ProductID: productID,
		Quantity:  *req.Quantity,
	})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	h.gate(c, models.PendingAction{
		Kind:      models.ActionRemove,
		ProductID: productID,
	})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.gate(c, models.PendingAction{Kind: models.ActionClear})
}

func (h *CartHandler) gate(c *gin.Context, action models.PendingAction) {
	result, updated, err := h.Gate.Gate(action)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidProduct) || errors.Is(err, cart.ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	if result == session.GateDeferred {
		c.JSON(http.StatusAccepted, gin.H{
			"status":  string(session.GateDeferred),
			"message": "Sign in to update your cart",
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}
