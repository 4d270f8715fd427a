package handlers

import (
	"errors"
	"net/http"

	"kota-backend/checkout"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	Orch *checkout.Orchestrator
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	order, err := h.Orch.Checkout(c.Request.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process checkout"})
		return
	}

	c.JSON(http.StatusCreated, order)
}
