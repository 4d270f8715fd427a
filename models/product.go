package models

// Product mirrors the upstream catalog's product shape. The catalog is an
// external read-only source; nothing here is persisted locally.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Rating      *Rating `json:"rating,omitempty"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}
