package cart

import (
	"errors"
	"log"
	"sync"

	"kota-backend/models"
	"kota-backend/store"
)

var (
	ErrInvalidProduct  = errors.New("invalid product id")
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Controller owns the in-memory cart. Every mutation persists through the
// cart store before returning, so a restart immediately after any mutation
// reflects the latest state. Mutations never touch the network; catalog
// lookups happen lazily when pricing or checkout asks for them.
type Controller struct {
	mu    sync.Mutex
	items map[int]int
	rev   uint64
	store *store.CartStore
}

// NewController restores the persisted cart. A missing or corrupt slot starts
// the controller empty.
func NewController(st *store.CartStore) *Controller {
	cart := st.Load()
	return &Controller{items: cart.Items, store: st}
}

// Cart returns a copy of the current cart.
func (c *Controller) Cart() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Snapshot returns the current cart together with its revision. Callers that
// suspend on network I/O compare revisions on resume to detect a cart that
// moved underneath them.
func (c *Controller) Snapshot() (models.Cart, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(), c.rev
}

// AddToCart adds delta to the line's quantity, creating the line if absent.
// Negative deltas decrement; a resulting quantity of zero or less removes the
// line entirely.
func (c *Controller) AddToCart(productID, delta int) (models.Cart, error) {
	if productID <= 0 {
		return models.Cart{}, ErrInvalidProduct
	}
	if delta == 0 {
		return models.Cart{}, ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.items[productID] + delta
	if next <= 0 {
		delete(c.items, productID)
	} else {
		c.items[productID] = next
	}
	return c.commitLocked(), nil
}

// SetQuantity replaces the line's quantity outright. A quantity of zero or
// less is equivalent to RemoveFromCart.
func (c *Controller) SetQuantity(productID, quantity int) (models.Cart, error) {
	if productID <= 0 {
		return models.Cart{}, ErrInvalidProduct
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		delete(c.items, productID)
	} else {
		c.items[productID] = quantity
	}
	return c.commitLocked(), nil
}

// RemoveFromCart drops the line. Removing an absent product is a no-op, not
// an error.
func (c *Controller) RemoveFromCart(productID int) (models.Cart, error) {
	if productID <= 0 {
		return models.Cart{}, ErrInvalidProduct
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, productID)
	return c.commitLocked(), nil
}

// ClearCart resets to an empty mapping and persists it.
func (c *Controller) ClearCart() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[int]int)
	c.rev++
	if err := c.store.Clear(); err != nil {
		// Persistence failures never bubble into the UI path.
		log.Printf("cart: failed to clear persisted cart: %v", err)
	}
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() models.Cart {
	cart := models.Cart{Items: c.items}
	cart.Recount()
	return cart.Clone()
}

func (c *Controller) commitLocked() models.Cart {
	c.rev++
	cart := c.snapshotLocked()
	if err := c.store.Save(cart); err != nil {
		log.Printf("cart: failed to persist cart: %v", err)
	}
	return cart
}
