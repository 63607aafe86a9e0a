package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/terminal-portal/internal/model"
	"github.com/iliyamo/terminal-portal/internal/repository"
)

// fakeAccounts is an in-memory AccountStore enforcing the same uniqueness
// and not-found semantics as the MySQL repository.
type fakeAccounts struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[uint64]*model.Account)}
}

func (f *fakeAccounts) Create(_ context.Context, username, email, passwordHash, role, status string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == username || a.Email == email {
			return 0, repository.ErrDuplicate
		}
	}
	f.nextID++
	f.byID[f.nextID] = &model.Account{
		ID:           f.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
	return f.nextID, nil
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Username == username {
			return *a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return *a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id uint64) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return *a, nil
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) List(_ context.Context, status string) ([]model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Account{}
	for _, a := range f.byID {
		if status == "" || status == "all" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccounts) MarkActive(_ context.Context, userID, adminID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	a.Status = model.StatusActive
	a.ApprovedAt = &now
	a.ApprovedBy = &adminID
	return nil
}

func (f *fakeAccounts) Suspend(_ context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = model.StatusSuspended
	return nil
}

func (f *fakeAccounts) Delete(_ context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, userID)
	return nil
}

func (f *fakeAccounts) TouchLastLogin(_ context.Context, userID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[userID]; ok {
		now := time.Now().UTC()
		a.LastLogin = &now
	}
	return nil
}

func (f *fakeAccounts) CountByStatus(_ context.Context) (model.StatusCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c model.StatusCounts
	for _, a := range f.byID {
		switch a.Status {
		case model.StatusPending:
			c.Pending++
		case model.StatusActive:
			c.Active++
		case model.StatusSuspended:
			c.Suspended++
		}
		c.Total++
	}
	return c, nil
}

type fakeSignups struct {
	mu       sync.Mutex
	nextID   uint64
	requests map[uint64]*model.SignupRequest
	accounts *fakeAccounts
}

func newFakeSignups(accounts *fakeAccounts) *fakeSignups {
	return &fakeSignups{requests: make(map[uint64]*model.SignupRequest), accounts: accounts}
}

func (f *fakeSignups) Create(_ context.Context, name, email, phone string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.requests[f.nextID] = &model.SignupRequest{
		ID: f.nextID, Name: name, Email: email, Phone: phone,
		Status: model.SignupPending, SubmittedAt: time.Now().UTC(),
	}
	return f.nextID, nil
}

func (f *fakeSignups) List(_ context.Context, status string) ([]model.SignupRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.SignupRequest{}
	for _, r := range f.requests {
		if status == "" || status == "all" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeSignups) UpdateStatus(_ context.Context, id uint64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Status = status
	return nil
}

func (f *fakeSignups) Provision(ctx context.Context, signupID uint64, username, email, passwordHash string, _ uint64) (uint64, error) {
	f.mu.Lock()
	r, ok := f.requests[signupID]
	f.mu.Unlock()
	if !ok {
		return 0, repository.ErrNotFound
	}
	id, err := f.accounts.Create(ctx, username, email, passwordHash, model.RoleUser, model.StatusActive)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	r.Status = model.SignupApproved
	f.mu.Unlock()
	return id, nil
}

func newTestService() (*Service, *fakeAccounts, *fakeSignups) {
	accounts := newFakeAccounts()
	signups := newFakeSignups(accounts)
	return NewService(accounts, signups, 12), accounts, signups
}

func TestSignupCreatesPendingUser(t *testing.T) {
	svc, accounts, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Signup(ctx, "alice", "alice@x.com", "longpassword1")
	require.NoError(t, err)

	a, err := accounts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, a.Status)
	assert.Equal(t, model.RoleUser, a.Role)
	assert.NotEqual(t, "longpassword1", a.PasswordHash)
}

func TestSignupValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"missing fields", "", "", ""},
		{"bad email", "alice", "not-an-email", "longpassword1"},
		{"short username", "al", "alice@x.com", "longpassword1"},
		{"long username", "a-very-long-username-here", "alice@x.com", "longpassword1"},
		{"short password", "alice", "alice@x.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tc.username, tc.email, tc.password)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestSignupDuplicateEitherField(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "alice", "alice@x.com", "longpassword1")
	require.NoError(t, err)

	t.Run("username collides", func(t *testing.T) {
		_, err := svc.Signup(ctx, "alice", "other@x.com", "longpassword1")
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
	t.Run("email collides", func(t *testing.T) {
		_, err := svc.Signup(ctx, "bob", "alice@x.com", "longpassword1")
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestLoginOutcomes(t *testing.T) {
	svc, accounts, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Signup(ctx, "alice", "alice@x.com", "longpassword1")
	require.NoError(t, err)

	t.Run("pending denied distinguishably", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "longpassword1")
		assert.ErrorIs(t, err, ErrAccountPending)
	})

	t.Run("wrong password is generic", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrongpassword")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user is the same generic denial", func(t *testing.T) {
		_, err := svc.Login(ctx, "mallory", "longpassword1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	require.NoError(t, svc.Approve(ctx, 99, id))

	t.Run("active account logs in by username", func(t *testing.T) {
		a, err := svc.Login(ctx, "alice", "longpassword1")
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.Equal(t, model.RoleUser, a.Role)
	})

	t.Run("identifier with @ resolves by email", func(t *testing.T) {
		a, err := svc.Login(ctx, "alice@x.com", "longpassword1")
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
	})

	t.Run("last login stamped", func(t *testing.T) {
		a, err := accounts.GetByID(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, a.LastLogin)
	})

	require.NoError(t, svc.Suspend(ctx, id))

	t.Run("suspended denied distinguishably", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "longpassword1")
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestAdminAccountsAreProtected(t *testing.T) {
	svc, accounts, _ := newTestService()
	ctx := context.Background()

	adminID, err := accounts.Create(ctx, "root", "root@x.com", "hash", model.RoleAdmin, model.StatusActive)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Suspend(ctx, adminID), repository.ErrAdminProtected)
	assert.ErrorIs(t, svc.Reject(ctx, adminID), repository.ErrAdminProtected)

	a, err := accounts.GetByID(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, a.Status, "admin account untouched")
}

func TestRejectOnlyPendingAccounts(t *testing.T) {
	svc, accounts, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Signup(ctx, "alice", "alice@x.com", "longpassword1")
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, 99, id))

	var vErr *ValidationError
	assert.ErrorAs(t, svc.Reject(ctx, id), &vErr, "active accounts cannot be rejected")

	id2, err := svc.Signup(ctx, "bob", "bob@x.com", "longpassword1")
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, id2))

	_, err = accounts.GetByID(ctx, id2)
	assert.ErrorIs(t, err, repository.ErrNotFound, "rejected pending account is deleted")
}

func TestProvisionSignupRequest(t *testing.T) {
	svc, accounts, _ := newTestService()
	ctx := context.Background()

	reqID, err := svc.SubmitSignupRequest(ctx, "Bob Jones", "bob@x.com", "555-0100")
	require.NoError(t, err)

	userID, err := svc.ProvisionSignup(ctx, 1, reqID, "bob", "bob@x.com", "chosen-password")
	require.NoError(t, err)

	a, err := accounts.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, a.Status, "provisioned accounts skip pending")
	assert.True(t, VerifyPassword(a.PasswordHash, "chosen-password"))

	list, err := svc.ListSignupRequests(ctx, model.SignupApproved)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, reqID, list[0].ID)
}

func TestRejectSignupRequest(t *testing.T) {
	svc, _, signups := newTestService()
	ctx := context.Background()

	reqID, err := svc.SubmitSignupRequest(ctx, "Eve", "eve@x.com", "")
	require.NoError(t, err)
	require.NoError(t, svc.RejectSignupRequest(ctx, reqID))

	r := signups.requests[reqID]
	assert.Equal(t, model.SignupRejected, r.Status)
}

func TestEndToEndApprovalFlow(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	id, err := svc.Signup(ctx, "alice", "alice@x.com", "longpassword1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice", "longpassword1")
	require.ErrorIs(t, err, ErrAccountPending)

	require.NoError(t, svc.Approve(ctx, 42, id))

	a, err := svc.Login(ctx, "alice", "longpassword1")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Username)
	assert.Equal(t, model.RoleUser, a.Role)
	require.NotNil(t, a.ApprovedBy)
	assert.Equal(t, uint64(42), *a.ApprovedBy)
}
