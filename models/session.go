package models

import "time"

// Session identifies one browser session; carts and checkouts are keyed by it.
type Session struct {
	ID        string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CartKey is the storage key the session's cart is persisted under.
func (s Session) CartKey() string {
	return "cart:" + s.ID
}
