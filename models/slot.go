package models

import "time"

// Slot is a named local-persistence blob. The cart, session and pending
// action each occupy one slot; the payload format is opaque to this layer.
type Slot struct {
	Name      string    `gorm:"primaryKey" json:"name"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
