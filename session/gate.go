package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"kota-backend/cart"
	"kota-backend/models"
	"kota-backend/store"
	"kota-backend/utils"
)

// Identity is the external credential verifier. Implementations return the
// upstream token and the user's profile on success.
type Identity interface {
	Authenticate(ctx context.Context, username, password string) (string, models.Profile, error)
}

type GateResult string

const (
	GateExecuted GateResult = "executed"
	GateDeferred GateResult = "deferred"
)

// Gate holds the current authentication state and guards cart mutations that
// require a signed-in user. While anonymous it records at most one pending
// action; a second gated action before login replaces the first.
type Gate struct {
	mu       sync.Mutex
	current  *models.Session
	pending  *models.PendingAction
	identity Identity
	cart     *cart.Controller
	sessions *store.SessionStore
	pendings *store.PendingActionStore
}

// NewGate restores any persisted session and pending action so both survive
// a restart the way the cart does.
func NewGate(id Identity, ctrl *cart.Controller, sessions *store.SessionStore, pendings *store.PendingActionStore) *Gate {
	g := &Gate{
		identity: id,
		cart:     ctrl,
		sessions: sessions,
		pendings: pendings,
	}
	if session, ok := sessions.Load(); ok {
		g.current = &session
	}
	if action, ok := pendings.Load(); ok {
		g.pending = &action
	}
	return g
}

// Session returns the current session, if any.
func (g *Gate) Session() (models.Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return models.Session{}, false
	}
	return *g.current, true
}

// Cart exposes the controller's current cart for login responses.
func (g *Gate) Cart() models.Cart {
	return g.cart.Cart()
}

func (g *Gate) Authenticated() bool {
	_, ok := g.Session()
	return ok
}

// Login verifies credentials with the identity collaborator, transitions to
// Authenticated and replays the pending action exactly once. A failed login
// leaves both the state and the cart untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (models.Session, error) {
	_, profile, err := g.identity.Authenticate(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}

	// The upstream token proved the credentials; the session carries a
	// locally signed token so protected routes verify statelessly.
	token, err := utils.GenerateToken(profile)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	session := models.Session{Token: token, Profile: profile}

	g.mu.Lock()
	g.current = &session
	if err := g.sessions.Save(session); err != nil {
		log.Printf("session: failed to persist session: %v", err)
	}
	replay := g.takePendingLocked()
	g.mu.Unlock()

	if replay != nil {
		g.apply(*replay)
	}
	return session, nil
}

// Logout destroys the session. The cart deliberately survives so signing out
// does not cost the user their lines.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.current = nil
	if err := g.sessions.Clear(); err != nil {
		log.Printf("session: failed to clear persisted session: %v", err)
	}
}

// Gate executes the action immediately when authenticated. While anonymous it
// records the action for post-login replay and reports deferred without
// touching the cart; the caller should present the login flow.
func (g *Gate) Gate(action models.PendingAction) (GateResult, models.Cart, error) {
	g.mu.Lock()
	authenticated := g.current != nil
	if !authenticated {
		g.pending = &action
		if err := g.pendings.Save(action); err != nil {
			log.Printf("session: failed to persist pending action: %v", err)
		}
		cart := g.cart.Cart()
		g.mu.Unlock()
		return GateDeferred, cart, nil
	}
	g.mu.Unlock()

	updated, err := g.execute(action)
	if err != nil {
		return GateExecuted, updated, err
	}
	return GateExecuted, updated, nil
}

// takePendingLocked consumes the pending action: cleared before it is applied
// so replay happens at most once even if the apply itself fails.
func (g *Gate) takePendingLocked() *models.PendingAction {
	action := g.pending
	g.pending = nil
	if action != nil {
		if err := g.pendings.Clear(); err != nil {
			log.Printf("session: failed to clear pending action: %v", err)
		}
	}
	return action
}

func (g *Gate) apply(action models.PendingAction) {
	if _, err := g.execute(action); err != nil {
		log.Printf("session: failed to replay pending %s action: %v", action.Kind, err)
	}
}

func (g *Gate) execute(action models.PendingAction) (models.Cart, error) {
	switch action.Kind {
	case models.ActionAdd:
		return g.cart.AddToCart(action.ProductID, action.Quantity)
	case models.ActionSet:
		return g.cart.SetQuantity(action.ProductID, action.Quantity)
	case models.ActionRemove:
		return g.cart.RemoveFromCart(action.ProductID)
	case models.ActionClear:
		return g.cart.ClearCart(), nil
	default:
		return g.cart.Cart(), fmt.Errorf("unknown cart action %q", action.Kind)
	}
}
