// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as the auth
// service and handlers to distinguish between failure scenarios. For
// example, ErrAdminProtected indicates that a lifecycle mutation targeted
// an admin account, while ErrDuplicate signals a username or email
// collision on insert.
package repository

import "errors"

// ErrDuplicate is returned when an insert collides with an existing
// username or email. Handlers should translate this into an HTTP 409
// response with a single message; which field collided is deliberately
// not revealed.
var ErrDuplicate = errors.New("username or email already exists")

// ErrAdminProtected is returned when a suspend or delete targets an
// account with the admin role. Admin accounts can never be removed or
// suspended through the lifecycle operations.
var ErrAdminProtected = errors.New("cannot suspend or delete admin accounts")

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")
