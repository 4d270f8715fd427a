package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"kota-backend/models"
)

// Fixed pricing policy. Shipping tiers are ordered and the first match wins.
const (
	TaxRate               = "0.08"
	FreeShippingThreshold = 100
	StandardShippingLow   = "5.99" // subtotal under 50
	StandardShippingMid   = "3.99" // subtotal 50 to under 100
)

var (
	taxRate       = decimal.RequireFromString(TaxRate)
	freeThreshold = decimal.NewFromInt(FreeShippingThreshold)
	midThreshold  = decimal.NewFromInt(50)
	shippingLow   = decimal.RequireFromString(StandardShippingLow)
	shippingMid   = decimal.RequireFromString(StandardShippingMid)
)

// Quote derives the pricing breakdown for a cart against resolved product
// prices. It is pure: identical inputs always produce identical output, with
// all rounding done once, to two decimals, half up. A line whose price is
// missing from resolved contributes zero to the subtotal rather than failing
// the whole quote.
func Quote(cart models.Cart, resolved map[int]float64, now time.Time) models.PriceQuote {
	subtotal := decimal.Zero
	for id, qty := range cart.Items {
		price, ok := resolved[id]
		if !ok {
			continue
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))))
	}

	shipping := shippingFor(subtotal)
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax).Round(2)

	amountToFree := decimal.Zero
	if subtotal.LessThan(freeThreshold) {
		amountToFree = freeThreshold.Sub(subtotal).Round(2)
	}

	method := "Standard Shipping"
	if shipping.IsZero() {
		method = "Free Shipping"
	}

	return models.PriceQuote{
		Subtotal:              toFloat(subtotal.Round(2)),
		Shipping:              toFloat(shipping),
		Tax:                   toFloat(tax),
		Total:                 toFloat(total),
		FreeShippingThreshold: FreeShippingThreshold,
		AmountToFreeShipping:  toFloat(amountToFree),
		EstimatedDelivery:     EstimatedDelivery(now, cart.ItemCount),
		ShippingMethod:        method,
	}
}

func shippingFor(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.IsZero():
		return decimal.Zero
	case subtotal.LessThan(midThreshold):
		return shippingLow
	case subtotal.LessThan(freeThreshold):
		return shippingMid
	default:
		return decimal.Zero
	}
}

// EstimatedDelivery returns an advisory date 3-7 business days out. The
// offset is derived from the cart's item count so the estimate stays stable
// for an unchanged cart instead of jumping around between views.
func EstimatedDelivery(now time.Time, itemCount int) string {
	if itemCount < 0 {
		itemCount = 0
	}
	days := 3 + itemCount%5

	date := now
	for added := 0; added < days; {
		date = date.AddDate(0, 0, 1)
		if wd := date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return date.Format("2006-01-02")
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
