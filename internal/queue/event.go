// Package queue defines message payloads exchanged over the message broker.
package queue

// AccountLifecycleEvent is published when an admin mutates an account's
// lifecycle (approve, reject, suspend, activate) or provisions one from a
// legacy signup request.  It carries enough for downstream consumers to
// build an audit trail without querying the primary database.
type AccountLifecycleEvent struct {
	EventID    string `json:"event_id"`
	Action     string `json:"action"` // approve | reject | suspend | activate | provision
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username,omitempty"`
	AdminID    uint64 `json:"admin_id"`
	AdminName  string `json:"admin_name"`
	OccurredAt string `json:"occurred_at"`
}
