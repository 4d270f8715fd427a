package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"kota-backend/models"
)

var ErrNotFound = errors.New("product not found")

// Client reads the external product catalog. The catalog must be assumed to
// fail; every call is tried against the primary host and then, if configured,
// against the fallback host before an error is reported.
type Client struct {
	baseURL     string
	fallbackURL string
	http        *http.Client
}

func NewClient(baseURL, fallbackURL string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		fallbackURL: strings.TrimRight(fallbackURL, "/"),
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	path := "/products"
	if limit > 0 {
		path = fmt.Sprintf("/products?limit=%d", limit)
	}

	var products []models.Product
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (models.Product, error) {
	var product models.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return models.Product{}, err
	}
	// The upstream answers some unknown ids with an empty 200 body.
	if product.ID == 0 {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// getJSON fetches path from the primary host, falling back to the secondary
// host on any failure, and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	err := c.fetch(ctx, c.baseURL, path, out)
	if err == nil || c.fallbackURL == "" || c.fallbackURL == c.baseURL {
		return err
	}

	log.Printf("catalog: primary host failed for %s, trying fallback: %v", path, err)
	return c.fetch(ctx, c.fallbackURL, path, out)
}

func (c *Client) fetch(ctx context.Context, host, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(body) == 0 || string(body) == "null" {
		return ErrNotFound
	}
	return json.Unmarshal(body, out)
}
