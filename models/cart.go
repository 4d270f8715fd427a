package models

import "sort"

// Cart maps product ids to quantities. A missing key means "not in cart";
// a stored quantity is always positive.
type Cart struct {
	Items     map[int]int `json:"items"`
	ItemCount int         `json:"item_count"`
}

func NewCart() Cart {
	return Cart{Items: make(map[int]int)}
}

// Clone returns a deep copy so callers can hold a stable snapshot across
// network calls while the live cart keeps mutating.
func (c Cart) Clone() Cart {
	items := make(map[int]int, len(c.Items))
	for id, qty := range c.Items {
		items[id] = qty
	}
	return Cart{Items: items, ItemCount: c.ItemCount}
}

// Recount recomputes ItemCount as the sum of all line quantities.
func (c *Cart) Recount() {
	count := 0
	for _, qty := range c.Items {
		count += qty
	}
	c.ItemCount = count
}

// Len returns the number of distinct lines in the cart.
func (c Cart) Len() int {
	return len(c.Items)
}

// ProductIDs returns the cart's product ids in ascending order. Map iteration
// order carries no meaning; sorting keeps derived output deterministic.
func (c Cart) ProductIDs() []int {
	ids := make([]int, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
