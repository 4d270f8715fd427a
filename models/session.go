package models

// Profile is the subset of the identity provider's user record retained after
// login. Raw credentials are never stored.
type Profile struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Session exists only while a user is authenticated. It is owned by the
// session gate; other components read it but never mutate it.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

// Pending action kinds. Only one action can be outstanding at a time.
const (
	ActionAdd    = "add"
	ActionSet    = "set"
	ActionRemove = "remove"
	ActionClear  = "clear"
)

// PendingAction is a cart mutation recorded while the user was anonymous,
// replayed exactly once after the next successful login.
type PendingAction struct {
	Kind      string `json:"kind"`
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
