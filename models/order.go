package models

import "time"

// OrderItem snapshots a product at checkout time. Unresolvable products keep
// their line with a placeholder title and a zero price.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the client-visible checkout confirmation. It is never persisted;
// it lives only in the response that created it.
type Order struct {
	OrderID           string      `json:"order_id"`
	Items             []OrderItem `json:"items"`
	Subtotal          float64     `json:"subtotal"`
	Shipping          float64     `json:"shipping"`
	Tax               float64     `json:"tax"`
	Total             float64     `json:"total"`
	EstimatedDelivery string      `json:"estimated_delivery"`
	ShippingMethod    string      `json:"shipping_method"`
	CreatedAt         time.Time   `json:"created_at"`
}
