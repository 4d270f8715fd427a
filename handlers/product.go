package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kota-backend/catalog"

	"github.com/gin-gonic/gin"
)

// ProductHandler proxies the external catalog. Nothing here is stored
// locally; failures degrade to an upstream-error response.
type ProductHandler struct {
	Catalog *catalog.Client
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	products, err := h.Catalog.ListProducts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, categories)
}
