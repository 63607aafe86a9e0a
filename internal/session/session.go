// Package session owns the server-side session store.  Clients hold only
// an opaque random key in a cookie; all principal data lives behind that
// key.  Two disjoint scopes exist in the same store so one browser can be
// signed in to the public portal and the admin area independently.
package session

import "time"

// Scope selects which of the two independent session keyspaces an
// operation targets.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// Session is the denormalized principal snapshot captured at login time.
// It is never re-read from the account store on access, so out-of-band
// account edits are not reflected until the next login.
type Session struct {
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
