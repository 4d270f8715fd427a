package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"kota-backend/cart"
	"kota-backend/models"
	"kota-backend/pricing"
)

var ErrEmptyCart = errors.New("cart is empty")

// Catalog resolves cart lines against the external product source.
type Catalog interface {
	GetProduct(ctx context.Context, id int) (models.Product, error)
}

// Orchestrator turns the current cart into priced views and, at checkout,
// into an order confirmation. It never holds a cart snapshot across a network
// call without re-validating it afterwards.
type Orchestrator struct {
	catalog Catalog
	cart    *cart.Controller
	now     func() time.Time
}

func NewOrchestrator(catalog Catalog, ctrl *cart.Controller) *Orchestrator {
	return &Orchestrator{catalog: catalog, cart: ctrl, now: time.Now}
}

// CartView is the enhanced cart: every line joined with catalog data plus the
// derived quote. It is recomputed on each request, never stored.
type CartView struct {
	Items     []models.OrderItem `json:"items"`
	ItemCount int                `json:"item_count"`
	Quote     models.PriceQuote  `json:"quote"`
}

// View resolves and prices the current cart. Unresolvable products degrade to
// placeholder lines with a zero price instead of failing the view.
func (o *Orchestrator) View(ctx context.Context) (CartView, error) {
	snapshot, resolved, err := o.resolve(ctx)
	if err != nil {
		return CartView{}, err
	}

	return CartView{
		Items:     buildItems(snapshot, resolved),
		ItemCount: snapshot.ItemCount,
		Quote:     pricing.Quote(snapshot, prices(resolved), o.now()),
	}, nil
}

// Checkout validates the cart against fresh catalog data, prices it, emits an
// order confirmation and clears the cart. Order emission takes priority over
// cart hygiene: a failure to clear is logged, never surfaced.
func (o *Orchestrator) Checkout(ctx context.Context) (models.Order, error) {
	if o.cart.Cart().Len() == 0 {
		return models.Order{}, ErrEmptyCart
	}

	snapshot, resolved, err := o.resolve(ctx)
	if err != nil {
		return models.Order{}, err
	}
	// The cart may have been emptied while catalog fetches were in flight.
	if snapshot.Len() == 0 {
		return models.Order{}, ErrEmptyCart
	}

	now := o.now()
	quote := pricing.Quote(snapshot, prices(resolved), now)

	order := models.Order{
		OrderID:           newOrderID(now),
		Items:             buildItems(snapshot, resolved),
		Subtotal:          quote.Subtotal,
		Shipping:          quote.Shipping,
		Tax:               quote.Tax,
		Total:             quote.Total,
		EstimatedDelivery: quote.EstimatedDelivery,
		ShippingMethod:    quote.ShippingMethod,
		CreatedAt:         now,
	}

	o.cart.ClearCart()
	return order, nil
}

// resolve snapshots the cart, fetches catalog data for every line, then
// re-reads the cart. If it moved while the fetches were in flight the stale
// snapshot is discarded and the work repeats against the fresh one, reusing
// already-fetched products. After a few rounds the latest snapshot wins.
func (o *Orchestrator) resolve(ctx context.Context) (models.Cart, map[int]models.Product, error) {
	resolved := make(map[int]models.Product)

	snapshot, rev := o.cart.Snapshot()
	for attempt := 0; attempt < 3; attempt++ {
		for _, id := range snapshot.ProductIDs() {
			if _, ok := resolved[id]; ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return models.Cart{}, nil, err
			}
			product, err := o.catalog.GetProduct(ctx, id)
			if err != nil {
				// Degraded, not fatal: the line keeps a placeholder.
				log.Printf("checkout: could not resolve product %d: %v", id, err)
				continue
			}
			resolved[id] = product
		}

		current, currentRev := o.cart.Snapshot()
		if currentRev == rev {
			break
		}
		snapshot, rev = current, currentRev
	}

	return snapshot, resolved, nil
}

func buildItems(snapshot models.Cart, resolved map[int]models.Product) []models.OrderItem {
	items := make([]models.OrderItem, 0, snapshot.Len())
	for _, id := range snapshot.ProductIDs() {
		item := models.OrderItem{
			ProductID: id,
			Title:     fmt.Sprintf("Product %d", id),
			Quantity:  snapshot.Items[id],
		}
		if product, ok := resolved[id]; ok {
			item.Title = product.Title
			item.Price = product.Price
		}
		items = append(items, item)
	}
	return items
}

func prices(resolved map[int]models.Product) map[int]float64 {
	out := make(map[int]float64, len(resolved))
	for id, product := range resolved {
		out[id] = product.Price
	}
	return out
}

func newOrderID(now time.Time) string {
	return "ORD" + now.Format("20060102150405") + uuid.NewString()[:8]
}
