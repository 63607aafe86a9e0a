package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/terminal-portal/internal/model"
)

// SignupRepo persists legacy intake requests in the 'signup_requests'
// table.  These are contact-detail submissions that an admin later
// promotes into real accounts; they are distinct from the pending
// accounts created by the self-service signup flow.
type SignupRepo struct{ DB *sql.DB }

func NewSignupRepo(db *sql.DB) *SignupRepo { return &SignupRepo{DB: db} }

// Create inserts a pending signup request.
func (r *SignupRepo) Create(ctx context.Context, name, email, phone string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO signup_requests (name, email, phone, status) VALUES (?,?,?,?)",
		name, email, phone, model.SignupPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns signup requests, optionally filtered by status, newest first.
func (r *SignupRepo) List(ctx context.Context, status string) ([]model.SignupRequest, error) {
	query := "SELECT id,name,email,phone,status,submitted_at FROM signup_requests"
	args := []any{}
	if status != "" && status != "all" {
		query += " WHERE status=?"
		args = append(args, status)
	}
	query += " ORDER BY submitted_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []model.SignupRequest{}
	for rows.Next() {
		var s model.SignupRequest
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Status, &s.SubmittedAt); err != nil {
			return nil, err
		}
		requests = append(requests, s)
	}
	return requests, rows.Err()
}

// UpdateStatus moves a request to approved or rejected.
func (r *SignupRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE signup_requests SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Provision creates an immediately-active account from a signup request
// and marks the request approved.  The two writes happen in a single
// transaction: either the account exists and the request is approved, or
// neither change lands.
func (r *SignupRepo) Provision(ctx context.Context, signupID uint64, username, email, passwordHash string, adminID uint64) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, status, approved_at, approved_by) VALUES (?,?,?,?,?,NOW(),?)",
		username, email, passwordHash, model.RoleUser, model.StatusActive, adminID)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	upd, err := tx.ExecContext(ctx,
		"UPDATE signup_requests SET status=? WHERE id=?", model.SignupApproved, signupID)
	if err != nil {
		return 0, err
	}
	if err := requireRow(upd); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}
