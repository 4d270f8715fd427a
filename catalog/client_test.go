package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetProductSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	product, err := client.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if product.Title != "Backpack" || product.Price != 109.95 {
		t.Errorf("unexpected product: %+v", product)
	}
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if _, err := client.GetProduct(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyBodyTreatedAsNotFound(t *testing.T) {
	// The public catalog answers some unknown ids with an empty 200 body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if _, err := client.GetProduct(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty body, got %v", err)
	}
}

func TestFallbackHostUsedWhenPrimaryFails(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"Backpack","price":109.95}]`))
	}))
	defer fallback.Close()

	client := NewClient(primary.URL, fallback.URL)
	products, err := client.ListProducts(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected the fallback host to serve the request, got %v", err)
	}
	if len(products) != 1 || products[0].Title != "Backpack" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestBothHostsFailing(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	client := NewClient(down.URL, down.URL)
	if _, err := client.ListProducts(context.Background(), 0); err == nil {
		t.Fatal("expected an error when every host fails")
	}
}

func TestIdenticalFallbackNotRetried(t *testing.T) {
	hits := 0
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	// A fallback pointing at the primary buys nothing; the request gets one shot.
	client := NewClient(down.URL, down.URL)
	if _, err := client.ListProducts(context.Background(), 0); err == nil {
		t.Fatal("expected an error when the only host fails")
	}
	if hits != 1 {
		t.Errorf("expected a single request against the shared host, got %d", hits)
	}
}

func TestListProductsPassesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "4" {
			t.Errorf("expected limit=4, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`)) // shape only
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if _, err := client.ListProducts(context.Background(), 4); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestListCategories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/categories" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`["electronics","jewelery"]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "electronics" {
		t.Errorf("unexpected categories: %v", categories)
	}
}
