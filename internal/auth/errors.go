package auth

import "errors"

// Login denial outcomes.  ErrInvalidCredentials deliberately covers both
// "no such account" and "wrong password" so callers cannot enumerate
// usernames.  Pending and suspended accounts are the exception: their
// status is revealed so legitimate owners understand why correct
// credentials are refused.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountPending     = errors.New("account is pending admin approval")
	ErrAccountSuspended   = errors.New("account has been suspended")
)

// ValidationError carries a field-level message for malformed or missing
// input.  Handlers surface the message verbatim with a 400 status.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }
