package store

import (
	"encoding/json"
	"errors"
	"log"

	"kota-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot names. Each is an opaque blob with no required binary format; a
// corrupt value decodes to "absent", never to an error on the read path.
const (
	slotCart          = "cart"
	slotSession       = "session"
	slotPendingAction = "pending_action"
)

// SlotStore is the raw named-blob layer over the local database.
type SlotStore struct {
	db *gorm.DB
}

func NewSlotStore(db *gorm.DB) *SlotStore {
	return &SlotStore{db: db}
}

// Get returns the blob stored under name. Read failures of any kind are
// logged and reported as absent so they never reach the UI path.
func (s *SlotStore) Get(name string) ([]byte, bool) {
	var slot models.Slot
	if err := s.db.Where("name = ?", name).First(&slot).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("store: failed to read slot %q: %v", name, err)
		}
		return nil, false
	}
	return slot.Value, true
}

func (s *SlotStore) Put(name string, value []byte) error {
	slot := models.Slot{Name: name, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
}

func (s *SlotStore) Delete(name string) error {
	return s.db.Where("name = ?", name).Delete(&models.Slot{}).Error
}

// CartStore persists the local cart mapping.
type CartStore struct {
	slots *SlotStore
}

func NewCartStore(slots *SlotStore) *CartStore {
	return &CartStore{slots: slots}
}

// Load returns the persisted cart, or an empty cart when the slot is missing
// or unreadable. Lines with non-positive quantities in a tampered blob are
// dropped so the quantity invariant holds from the first read.
func (s *CartStore) Load() models.Cart {
	raw, ok := s.slots.Get(slotCart)
	if !ok {
		return models.NewCart()
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		log.Printf("store: corrupt cart slot, starting empty: %v", err)
		return models.NewCart()
	}
	if cart.Items == nil {
		cart.Items = make(map[int]int)
	}
	for id, qty := range cart.Items {
		if id <= 0 || qty <= 0 {
			delete(cart.Items, id)
		}
	}
	cart.Recount()
	return cart
}

func (s *CartStore) Save(cart models.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.slots.Put(slotCart, raw)
}

func (s *CartStore) Clear() error {
	return s.slots.Delete(slotCart)
}

// SessionStore persists the authenticated session for reload survival.
type SessionStore struct {
	slots *SlotStore
}

func NewSessionStore(slots *SlotStore) *SessionStore {
	return &SessionStore{slots: slots}
}

func (s *SessionStore) Load() (models.Session, bool) {
	raw, ok := s.slots.Get(slotSession)
	if !ok {
		return models.Session{}, false
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil || session.Token == "" {
		if err != nil {
			log.Printf("store: corrupt session slot, treating as absent: %v", err)
		}
		return models.Session{}, false
	}
	return session, true
}

func (s *SessionStore) Save(session models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.slots.Put(slotSession, raw)
}

func (s *SessionStore) Clear() error {
	return s.slots.Delete(slotSession)
}

// PendingActionStore persists the single deferred cart action awaiting
// post-login replay.
type PendingActionStore struct {
	slots *SlotStore
}

func NewPendingActionStore(slots *SlotStore) *PendingActionStore {
	return &PendingActionStore{slots: slots}
}

func (s *PendingActionStore) Load() (models.PendingAction, bool) {
	raw, ok := s.slots.Get(slotPendingAction)
	if !ok {
		return models.PendingAction{}, false
	}

	var action models.PendingAction
	if err := json.Unmarshal(raw, &action); err != nil || action.Kind == "" {
		if err != nil {
			log.Printf("store: corrupt pending action slot, treating as absent: %v", err)
		}
		return models.PendingAction{}, false
	}
	return action, true
}

func (s *PendingActionStore) Save(action models.PendingAction) error {
	raw, err := json.Marshal(action)
	if err != nil {
		return err
	}
	return s.slots.Put(slotPendingAction, raw)
}

func (s *PendingActionStore) Clear() error {
	return s.slots.Delete(slotPendingAction)
}
