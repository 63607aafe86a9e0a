package model

import "time"

// Signup request status values for the legacy intake flow.
const (
	SignupPending  = "pending"
	SignupApproved = "approved"
	SignupRejected = "rejected"
)

// SignupRequest is the legacy intake record (`signup_requests` table).
// Unlike the self-service flow, which creates a pending Account directly,
// this flow collects contact details that an admin later promotes into an
// active account with credentials of their choosing.
type SignupRequest struct {
	ID          uint64    // signup_requests.id
	Name        string    // signup_requests.name
	Email       string    // signup_requests.email
	Phone       string    // signup_requests.phone
	Status      string    // signup_requests.status
	SubmittedAt time.Time // signup_requests.submitted_at
}
