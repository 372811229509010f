// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielhkuo/pollboard/apperr"
	"github.com/danielhkuo/pollboard/auth"
	"github.com/danielhkuo/pollboard/kvstore"
	"github.com/danielhkuo/pollboard/metrics"
	"github.com/danielhkuo/pollboard/models"
)

// DefaultLoginDelay is the simulated round trip of a login.
const DefaultLoginDelay = 800 * time.Millisecond

// Manager owns the signed-in user.
type Manager struct {
	kv         kvstore.Store
	loginDelay time.Duration
	metrics    *metrics.Metrics

	// writeMu serializes sign-in state changes so memory and kv agree.
	writeMu     sync.Mutex
	mu          sync.RWMutex
	currentUser *models.User

	restoring atomic.Bool
	pending   atomic.Int32
}

type Option func(*Manager)

func WithLoginDelay(d time.Duration) Option {
	return func(m *Manager) { m.loginDelay = d }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// New returns a Manager that reports Loading until Restore has run.
func New(kv kvstore.Store, opts ...Option) *Manager {
	m := &Manager{kv: kv, loginDelay: DefaultLoginDelay}
	for _, opt := range opts {
		opt(m)
	}
	m.restoring.Store(true)
	return m
}

// Restore loads a previously stored session. A missing, unreadable or unknown
// user leaves the session signed out. Loading is cleared on every path.
func (m *Manager) Restore(ctx context.Context) {
	defer m.restoring.Store(false)

	raw, ok, err := m.kv.Get(ctx, kvstore.KeyCurrentUser)
	if err != nil {
		slog.Warn("failed to read stored session", "error", err)
		return
	}
	if !ok {
		return
	}

	var stored models.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		slog.Warn("ignoring malformed stored session", "error", err)
		return
	}

	// Re-resolve against the directory so the blob cannot widen privileges.
	user, ok := auth.LookupID(stored.ID)
	if !ok {
		slog.Warn("ignoring stored session for unknown user", "user_id", stored.ID)
		return
	}

	m.mu.Lock()
	m.currentUser = &user
	m.mu.Unlock()

	slog.Info("session restored", "user_id", user.ID)
}

// Login waits for the simulated round trip, then signs in the directory user
// with the given email. The password is not checked. A cancelled ctx leaves
// the session untouched and returns ctx.Err().
func (m *Manager) Login(ctx context.Context, email, _ string) (models.User, error) {
	m.pending.Add(1)
	defer m.pending.Add(-1)

	start := time.Now()

	if m.loginDelay > 0 {
		timer := time.NewTimer(m.loginDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return models.User{}, ctx.Err()
		case <-timer.C:
		}
	}

	user, ok := auth.LookupEmail(email)
	if !ok {
		m.metrics.ObserveLogin(string(apperr.CodeInvalidCredentials), time.Since(start).Seconds())
		slog.Info("login rejected", "email", email)
		return models.User{}, apperr.InvalidCredentials()
	}

	m.writeMu.Lock()
	m.mu.Lock()
	m.currentUser = &user
	m.mu.Unlock()
	m.persist(ctx, user)
	m.writeMu.Unlock()

	m.metrics.ObserveLogin("success", time.Since(start).Seconds())
	slog.Info("login succeeded", "user_id", user.ID)

	return user, nil
}

// Logout signs out and forgets the stored session. Safe when signed out.
func (m *Manager) Logout(ctx context.Context) {
	m.writeMu.Lock()
	m.mu.Lock()
	prev := m.currentUser
	m.currentUser = nil
	m.mu.Unlock()

	if err := m.kv.Remove(ctx, kvstore.KeyCurrentUser); err != nil {
		slog.Warn("failed to remove stored session", "error", err)
	}
	m.writeMu.Unlock()

	if prev != nil {
		slog.Info("logged out", "user_id", prev.ID)
	}
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currentUser == nil {
		return nil
	}
	u := *m.currentUser
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	return m.CurrentUser() != nil
}

// Loading reports whether a restore or any login is still in flight.
func (m *Manager) Loading() bool {
	return m.restoring.Load() || m.pending.Load() > 0
}

func (m *Manager) persist(ctx context.Context, user models.User) {
	b, err := json.Marshal(user)
	if err != nil {
		slog.Warn("failed to encode session", "error", err)
		return
	}
	if err := m.kv.Set(ctx, kvstore.KeyCurrentUser, string(b)); err != nil {
		slog.Warn("failed to persist session", "error", err)
	}
}
