// Package ratelimit implements a per-IP sliding-window attempt limiter
// with lockout and progressive delay.  Two isolated scopes share the
// implementation: authentication attempts and the privileged
// network-control actions each keep their own counters.
package ratelimit

import (
	"context"
	"math"
	"time"

	"github.com/iliyamo/terminal-portal/internal/config"
)

// Scope isolates counter keyspaces per protected surface.
type Scope string

const (
	ScopeAuth    Scope = "auth"
	ScopeNetwork Scope = "network"
)

// Entry is the per-IP attempt record.  FirstAttempt anchors the sliding
// window; LastAttempt anchors the lockout expiry.
type Entry struct {
	Attempts     int       `json:"attempts"`
	FirstAttempt time.Time `json:"first_attempt"`
	LastAttempt  time.Time `json:"last_attempt"`
}

// Decision is the outcome of a limiter check.  RetryAfter is populated in
// seconds only when the caller is locked out.
type Decision struct {
	Allowed    bool
	RetryAfter int
}

// Limiter evaluates and records attempts against a Store.  State is
// best-effort: losing the store merely resets throttling, so store errors
// surface to the caller, which may choose to fail open.
type Limiter struct {
	store Store
	cfg   config.RateLimitConfig
	now   func() time.Time
}

func NewLimiter(store Store, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{store: store, cfg: cfg, now: time.Now}
}

// Check decides whether an attempt from ip may proceed.
//
// Stale entries across the whole scope are purged first, then:
// over-limit inside the lockout denies with the remaining seconds;
// over-limit past the lockout resets; a first attempt older than the
// current window resets (window rolled over); anything else is allowed.
func (l *Limiter) Check(ctx context.Context, scope Scope, ip string) (Decision, error) {
	now := l.now()
	if err := l.store.Sweep(ctx, scope, now.Add(-l.cfg.Lockout)); err != nil {
		return Decision{Allowed: true}, err
	}

	entry, ok, err := l.store.Get(ctx, scope, ip)
	if err != nil || !ok {
		return Decision{Allowed: true}, err
	}

	if entry.Attempts >= l.cfg.MaxAttempts {
		since := now.Sub(entry.LastAttempt)
		if since < l.cfg.Lockout {
			remaining := int(math.Ceil((l.cfg.Lockout - since).Seconds()))
			return Decision{Allowed: false, RetryAfter: remaining}, nil
		}
		// Lockout elapsed: the slate is wiped.
		return Decision{Allowed: true}, l.store.Delete(ctx, scope, ip)
	}

	if entry.FirstAttempt.Before(now.Add(-l.cfg.Window)) {
		// Window rolled over without reaching the limit.
		return Decision{Allowed: true}, l.store.Delete(ctx, scope, ip)
	}

	return Decision{Allowed: true}, nil
}

// Fail records a failed attempt and returns the progressive delay the
// caller should sleep before responding.  The delay slows automated
// retries without rejecting outright; it blocks only the offending
// request's handler.
func (l *Limiter) Fail(ctx context.Context, scope Scope, ip string) (time.Duration, error) {
	now := l.now()
	entry, ok, err := l.store.Get(ctx, scope, ip)
	if err != nil {
		return 0, err
	}
	if !ok {
		entry = Entry{FirstAttempt: now}
	}
	entry.Attempts++
	entry.LastAttempt = now

	if err := l.store.Put(ctx, scope, ip, entry, l.cfg.Lockout); err != nil {
		return 0, err
	}

	delay := time.Duration(entry.Attempts) * l.cfg.DelayStep
	if delay > l.cfg.DelayMax {
		delay = l.cfg.DelayMax
	}
	return delay, nil
}

// Reset clears the caller's entry entirely after a successful attempt.
// A subsequent failure starts over at attempt #1.
func (l *Limiter) Reset(ctx context.Context, scope Scope, ip string) error {
	return l.store.Delete(ctx, scope, ip)
}
