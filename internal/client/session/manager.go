package session

import (
	"context"
	"errors"
	"sync"

	"eventdiscovery/internal/client/api"
	"eventdiscovery/internal/logging"
)

// Status is the orchestrator state.
type Status int

const (
	StatusLoggedOut Status = iota
	StatusLoggingIn
	StatusLoggedIn
	StatusLoggingOut
	StatusUpdating
)

func (s Status) String() string {
	switch s {
	case StatusLoggedOut:
		return "logged-out"
	case StatusLoggingIn:
		return "logging-in"
	case StatusLoggedIn:
		return "logged-in"
	case StatusLoggingOut:
		return "logging-out"
	case StatusUpdating:
		return "updating"
	default:
		return "unknown"
	}
}

// Result is what every public operation resolves to. Operations never
// propagate transport errors; Message is safe to show the user.
type Result struct {
	OK      bool
	Message string
}

// failure surfaces server-authored messages and hides everything else
// (transport errors, file errors) behind the fallback.
func failure(err error, fallback string) Result {
	msg := fallback
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return Result{OK: false, Message: msg}
}

// Remote is the slice of the server API the orchestrator needs.
// *api.Client satisfies it.
type Remote interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, params api.RegisterParams) (*api.AuthResponse, error)
	UpdateProfile(ctx context.Context, token string, params api.UpdateProfileParams) (*api.AuthResponse, error)
	CompleteProfile(ctx context.Context, token string, params api.CompleteProfileParams) (*api.User, error)
}

// Manager owns the session snapshot. All operations serialize on a mutex;
// if callers race anyway, the last completed write wins. Remote success is
// always confirmed before the local write, never the other way around: a
// crash between the two leaves the user logged out, which a retry fixes.
type Manager struct {
	mu     sync.Mutex
	store  *Store
	remote Remote
	log    logging.Logger

	status Status
	snap   Snapshot
}

// NewManager creates a Manager in the LoggingIn state; call Restore to
// resolve it from the persisted snapshot.
func NewManager(store *Store, remote Remote, log logging.Logger) *Manager {
	return &Manager{store: store, remote: remote, log: log, status: StatusLoggingIn}
}

// Restore resolves the startup state from local storage alone: LoggedIn
// only when a token and a structurally valid user are both present, else
// LoggedOut. No server round trip happens here — an expired or rotated
// token surfaces on the first real request instead.
func (m *Manager) Restore() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.store.Load()
	if ok && snap.Valid() {
		m.snap = snap
		m.status = StatusLoggedIn
	} else {
		m.snap = Snapshot{}
		m.status = StatusLoggedOut
	}
	return m.status
}

// Status returns the current state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// CurrentUser returns the cached user. It never reports an authenticated
// user when the token is absent, even if a stale user snapshot exists.
func (m *Manager) CurrentUser() (api.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusLoggedIn || !m.snap.Valid() {
		return api.User{}, false
	}
	return m.snap.User, true
}

// Token returns the cached bearer token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusLoggedIn {
		return ""
	}
	return m.snap.Token
}

// Login authenticates remotely and, only on success, persists the snapshot
// and transitions to LoggedIn. Any failure leaves the store and the prior
// state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.status
	m.status = StatusLoggingIn

	resp, err := m.remote.Login(ctx, email, password)
	if err != nil {
		m.log.Debug(ctx, "login failed", "error", err)
		m.status = prev
		return failure(err, "Login failed. Please try again.")
	}

	return m.commitAuth(ctx, *resp, prev)
}

// Register creates an account and logs it in, with the same persistence
// contract as Login.
func (m *Manager) Register(ctx context.Context, params api.RegisterParams) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.status
	m.status = StatusLoggingIn

	resp, err := m.remote.Register(ctx, params)
	if err != nil {
		m.log.Debug(ctx, "registration failed", "error", err)
		m.status = prev
		return failure(err, "Registration failed. Please try again.")
	}

	return m.commitAuth(ctx, *resp, prev)
}

// commitAuth persists a server-issued credential pair and flips to
// LoggedIn. Callers hold the mutex.
func (m *Manager) commitAuth(ctx context.Context, resp api.AuthResponse, prev Status) Result {
	snap := Snapshot{Token: resp.Token, User: resp.User}
	if !snap.Valid() {
		m.status = prev
		return Result{OK: false, Message: "Login failed: invalid server response"}
	}

	if err := m.store.Save(snap); err != nil {
		m.log.Error(ctx, "session save failed", "error", err)
		m.status = prev
		return Result{OK: false, Message: "Could not save session. Please try again."}
	}

	m.snap = snap
	m.status = StatusLoggedIn
	return Result{OK: true}
}

// Logout clears the session unconditionally. There is no remote logout
// call to fail; even a local storage error degrades to an in-memory
// logout so the operation is always locally effective.
func (m *Manager) Logout(ctx context.Context) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = StatusLoggingOut
	if err := m.store.Clear(); err != nil {
		m.log.Warn(ctx, "session clear failed, dropping in-memory state anyway", "error", err)
	}
	m.snap = Snapshot{}
	m.status = StatusLoggedOut
	return Result{OK: true}
}

// UpdateUser pushes a partial profile update to the server, then merges
// the result over the currently *persisted* snapshot (not the in-memory
// copy), persists the merge, and only then updates visible state. Failure
// at any point leaves the prior persisted snapshot intact.
func (m *Manager) UpdateUser(ctx context.Context, params api.UpdateProfileParams) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusLoggedIn || m.snap.Token == "" {
		return Result{OK: false, Message: "Not logged in."}
	}

	prev := m.status
	m.status = StatusUpdating
	defer func() { m.status = prev }()

	resp, err := m.remote.UpdateProfile(ctx, m.snap.Token, params)
	if err != nil {
		m.log.Debug(ctx, "profile update failed", "error", err)
		return failure(err, "Could not update profile. Please try again.")
	}

	merged, _ := m.store.Load()
	merged.User = resp.User
	if resp.Token != "" {
		merged.Token = resp.Token
	} else if merged.Token == "" {
		merged.Token = m.snap.Token
	}

	if err := m.store.Save(merged); err != nil {
		m.log.Error(ctx, "session save failed", "error", err)
		return Result{OK: false, Message: "Could not save profile changes."}
	}

	m.snap = merged
	return Result{OK: true}
}

// CompleteProfile sets bio and interests and marks the profile complete,
// with the same persisted-snapshot merge contract as UpdateUser.
func (m *Manager) CompleteProfile(ctx context.Context, bio string, interests []api.Interest) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusLoggedIn || m.snap.Token == "" {
		return Result{OK: false, Message: "Not logged in."}
	}

	prev := m.status
	m.status = StatusUpdating
	defer func() { m.status = prev }()

	user, err := m.remote.CompleteProfile(ctx, m.snap.Token, api.CompleteProfileParams{Bio: bio, Interests: interests})
	if err != nil {
		m.log.Debug(ctx, "profile completion failed", "error", err)
		return failure(err, "Could not complete profile. Please try again.")
	}

	merged, _ := m.store.Load()
	merged.User = *user
	if merged.Token == "" {
		merged.Token = m.snap.Token
	}

	if err := m.store.Save(merged); err != nil {
		m.log.Error(ctx, "session save failed", "error", err)
		return Result{OK: false, Message: "Could not save profile changes."}
	}

	m.snap = merged
	return Result{OK: true}
}
