package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/terminal-portal/internal/model"
)

// AccountRepo persists portal accounts in the 'users' table.  The schema
// enforces the username/email uniqueness invariant; the service layer
// checks it too, but the unique indexes are the final arbiter under
// concurrent signups.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = "id,username,email,password_hash,role,status,created_at,approved_at,approved_by,last_login"

// Create inserts an account and returns its ID.  The password hash is
// computed by the caller; this layer never sees plaintext.
func (r *AccountRepo) Create(ctx context.Context, username, email, passwordHash, role, status string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, status) VALUES (?,?,?,?,?)",
		username, email, passwordHash, role, status)
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
	return uint64(id), nil
}

// GetByUsername fetches an account by username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	return r.getWhere(ctx, "username=?", username)
}

// GetByEmail fetches an account by email.  Kept for the legacy login flow
// where the identifier may be either a username or an email address.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	return r.getWhere(ctx, "email=?", email)
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	return r.getWhere(ctx, "id=?", id)
}

func (r *AccountRepo) getWhere(ctx context.Context, where string, arg any) (model.Account, error) {
	var (
		a          model.Account
		approvedAt sql.NullTime
		approvedBy sql.NullInt64
		lastLogin  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM users WHERE "+where+" LIMIT 1", arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.Status,
			&a.CreatedAt, &approvedAt, &approvedBy, &lastLogin)
	if err == sql.ErrNoRows {
		return model.Account{}, ErrNotFound
	}
	if err != nil {
		return model.Account{}, err
	}
	if approvedAt.Valid {
		a.ApprovedAt = &approvedAt.Time
	}
	if approvedBy.Valid {
		v := uint64(approvedBy.Int64)
		a.ApprovedBy = &v
	}
	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return a, nil
}

// List returns accounts, optionally filtered by status, newest first.
func (r *AccountRepo) List(ctx context.Context, status string) ([]model.Account, error) {
	query := "SELECT " + accountColumns + " FROM users"
	args := []any{}
	if status != "" && status != "all" {
		query += " WHERE status=?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var (
			a          model.Account
			approvedAt sql.NullTime
			approvedBy sql.NullInt64
			lastLogin  sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.Status,
			&a.CreatedAt, &approvedAt, &approvedBy, &lastLogin); err != nil {
			return nil, err
		}
		if approvedAt.Valid {
			a.ApprovedAt = &approvedAt.Time
		}
		if approvedBy.Valid {
			v := uint64(approvedBy.Int64)
			a.ApprovedBy = &v
		}
		if lastLogin.Valid {
			a.LastLogin = &lastLogin.Time
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// MarkActive transitions an account to active and records the approval.
// Status, approved_at and approved_by change as one statement so the
// approval is atomic.  Used by both the approve and the reactivate
// operations.
func (r *AccountRepo) MarkActive(ctx context.Context, userID, adminID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=?, approved_at=NOW(), approved_by=? WHERE id=?",
		model.StatusActive, adminID, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Suspend transitions an account to suspended.  Role protection is checked
// by the caller before this runs.
func (r *AccountRepo) Suspend(ctx context.Context, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status=? WHERE id=?", model.StatusSuspended, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes an account row.  Only reachable through the admin reject
// operation on a pending user account.
func (r *AccountRepo) Delete(ctx context.Context, userID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// TouchLastLogin stamps a successful authentication.
func (r *AccountRepo) TouchLastLogin(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=NOW() WHERE id=?", userID)
	return err
}

// CountByStatus aggregates account counts for the stats endpoint.
func (r *AccountRepo) CountByStatus(ctx context.Context) (model.StatusCounts, error) {
	var counts model.StatusCounts
	rows, err := r.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM users GROUP BY status")
	if err != nil {
		return counts, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		switch status {
		case model.StatusPending:
			counts.Pending = n
		case model.StatusActive:
			counts.Active = n
		case model.StatusSuspended:
			counts.Suspended = n
		}
		counts.Total += n
	}
	return counts, rows.Err()
}

// isDuplicateKey reports whether err is MySQL error 1062 (unique index
// violation).
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
