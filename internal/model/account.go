package model

import "time"

// Account status values.  An account is created as StatusPending by the
// self-service signup flow and only becomes StatusActive through an admin
// approval.  StatusSuspended is reversible; rejection of a pending account
// deletes the row outright and therefore has no status of its own.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Account roles.  Admin accounts are protected: the lifecycle operations
// refuse to suspend or delete them.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account represents a portal account as stored in the `users` table.
// Each field corresponds to a column.  PasswordHash is never serialized;
// handlers define separate response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – argon2id (or legacy bcrypt) hashed password.
//  Role         – "user" or "admin".
//  Status       – "pending", "active" or "suspended".
//  CreatedAt    – timestamp of creation.
//  ApprovedAt   – when an admin approved the account (null until then).
//  ApprovedBy   – id of the approving admin (null until approved).
//  LastLogin    – timestamp of the most recent successful login.
type Account struct {
	ID           uint64     // users.id
	Username     string     // users.username
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	Role         string     // users.role
	Status       string     // users.status
	CreatedAt    time.Time  // users.created_at
	ApprovedAt   *time.Time // users.approved_at (nullable)
	ApprovedBy   *uint64    // users.approved_by (nullable, self-referential)
	LastLogin    *time.Time // users.last_login (nullable)
}

// IsAdmin reports whether the account carries the admin role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// StatusCounts aggregates accounts per lifecycle status for the admin
// dashboard stats endpoint.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Active    int `json:"active"`
	Suspended int `json:"suspended"`
}
