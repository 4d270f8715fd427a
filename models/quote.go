package models

// PriceQuote is the derived pricing breakdown for the current cart. It is
// recomputed on every view and never stored.
type PriceQuote struct {
	Subtotal              float64 `json:"subtotal"`
	Shipping              float64 `json:"shipping"`
	Tax                   float64 `json:"tax"`
	Total                 float64 `json:"total"`
	FreeShippingThreshold float64 `json:"free_shipping_threshold"`
	AmountToFreeShipping  float64 `json:"amount_to_free_shipping"`
	EstimatedDelivery     string  `json:"estimated_delivery"`
	ShippingMethod        string  `json:"shipping_method"`
}
