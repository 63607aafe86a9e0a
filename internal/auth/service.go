// Package auth implements the credential and account-lifecycle core of the
// portal: signup validation and hashing, login verification with
// status-aware denials, and the admin-only lifecycle transitions.
package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"github.com/iliyamo/terminal-portal/internal/model"
	"github.com/iliyamo/terminal-portal/internal/repository"
)

// AccountStore is the persistence contract the service needs for accounts.
// *repository.AccountRepo satisfies it; tests substitute an in-memory fake.
type AccountStore interface {
	Create(ctx context.Context, username, email, passwordHash, role, status string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.Account, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	List(ctx context.Context, status string) ([]model.Account, error)
	MarkActive(ctx context.Context, userID, adminID uint64) error
	Suspend(ctx context.Context, userID uint64) error
	Delete(ctx context.Context, userID uint64) error
	TouchLastLogin(ctx context.Context, userID uint64) error
	CountByStatus(ctx context.Context) (model.StatusCounts, error)
}

// SignupStore is the persistence contract for the legacy intake flow.
type SignupStore interface {
	Create(ctx context.Context, name, email, phone string) (uint64, error)
	List(ctx context.Context, status string) ([]model.SignupRequest, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Provision(ctx context.Context, signupID uint64, username, email, passwordHash string, adminID uint64) (uint64, error)
}

// Service bundles the account and signup stores with hashing policy.
type Service struct {
	Accounts   AccountStore
	Signups    SignupStore
	BcryptCost int // cost for legacy provisioning; self-service uses argon2id
}

func NewService(accounts AccountStore, signups SignupStore, bcryptCost int) *Service {
	return &Service{Accounts: accounts, Signups: signups, BcryptCost: bcryptCost}
}

// Signup validates input, hashes the password with argon2id, and creates a
// pending user account.  Duplicate username or email yields
// repository.ErrDuplicate regardless of which field collides.
func (s *Service) Signup(ctx context.Context, username, email, password string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return 0, validationErr("All fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return 0, validationErr("Invalid email address")
	}
	if len(username) < 3 || len(username) > 20 {
		return 0, validationErr("Username must be 3-20 characters")
	}
	if len(password) < 8 {
		return 0, validationErr("Password must be at least 8 characters")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.Accounts.Create(ctx, username, email, hash, model.RoleUser, model.StatusPending)
}

// Login verifies credentials and account status.  The identifier may be a
// username or an email address, distinguished by the presence of an "@".
// Pending and suspended accounts are denied with their own sentinel errors
// only after the password verified, so the status never leaks to a caller
// who does not hold the credentials.
func (s *Service) Login(ctx context.Context, identifier, password string) (model.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return model.Account{}, validationErr("Username and password required")
	}

	var (
		account model.Account
		err     error
	)
	if strings.Contains(identifier, "@") {
		account, err = s.Accounts.GetByEmail(ctx, identifier)
	} else {
		account, err = s.Accounts.GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Account{}, ErrInvalidCredentials
		}
		return model.Account{}, err
	}
	if !VerifyPassword(account.PasswordHash, password) {
		return model.Account{}, ErrInvalidCredentials
	}

	switch account.Status {
	case model.StatusPending:
		return model.Account{}, ErrAccountPending
	case model.StatusSuspended:
		return model.Account{}, ErrAccountSuspended
	}

	if err := s.Accounts.TouchLastLogin(ctx, account.ID); err != nil {
		// Login still succeeds; the stamp is informational.
		log.Printf("auth: update last_login for user %d failed: %v", account.ID, err)
	}
	return account, nil
}

// Approve transitions a pending account to active, recording who approved
// it and when.
func (s *Service) Approve(ctx context.Context, adminID, userID uint64) error {
	return s.Accounts.MarkActive(ctx, userID, adminID)
}

// Reject deletes a pending user account.  Admin accounts and accounts
// past the pending state are refused.
func (s *Service) Reject(ctx context.Context, userID uint64) error {
	account, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if account.IsAdmin() {
		return repository.ErrAdminProtected
	}
	if account.Status != model.StatusPending {
		return validationErr("Only pending accounts can be rejected")
	}
	return s.Accounts.Delete(ctx, userID)
}

// Suspend transitions an active account to suspended.  Admin accounts are
// always refused.
func (s *Service) Suspend(ctx context.Context, userID uint64) error {
	account, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if account.IsAdmin() {
		return repository.ErrAdminProtected
	}
	return s.Accounts.Suspend(ctx, userID)
}

// Activate lifts a suspension, re-stamping approved_at and approved_by.
func (s *Service) Activate(ctx context.Context, adminID, userID uint64) error {
	return s.Accounts.MarkActive(ctx, userID, adminID)
}

// ListAccounts returns accounts filtered by lifecycle status ("" or "all"
// for everything).
func (s *Service) ListAccounts(ctx context.Context, status string) ([]model.Account, error) {
	return s.Accounts.List(ctx, status)
}

// Stats aggregates account counts per status.
func (s *Service) Stats(ctx context.Context) (model.StatusCounts, error) {
	return s.Accounts.CountByStatus(ctx)
}

// SubmitSignupRequest records a legacy intake submission.
func (s *Service) SubmitSignupRequest(ctx context.Context, name, email, phone string) (uint64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if name == "" || email == "" {
		return 0, validationErr("Name and email are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return 0, validationErr("Invalid email address")
	}
	return s.Signups.Create(ctx, name, email, phone)
}

// ListSignupRequests returns intake submissions filtered by status.
func (s *Service) ListSignupRequests(ctx context.Context, status string) ([]model.SignupRequest, error) {
	return s.Signups.List(ctx, status)
}

// RejectSignupRequest marks an intake submission rejected.
func (s *Service) RejectSignupRequest(ctx context.Context, signupID uint64) error {
	return s.Signups.UpdateStatus(ctx, signupID, model.SignupRejected)
}

// ProvisionSignup promotes an intake submission into an immediately-active
// account with admin-chosen credentials.  The legacy flow hashes with
// bcrypt at the configured cost.
func (s *Service) ProvisionSignup(ctx context.Context, adminID, signupID uint64, username, email, password string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return 0, validationErr("All fields are required")
	}
	hash, err := HashPasswordBcrypt(password, s.BcryptCost)
	if err != nil {
		return 0, err
	}
	return s.Signups.Provision(ctx, signupID, username, email, hash, adminID)
}
