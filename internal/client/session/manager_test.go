package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdiscovery/internal/client/api"
	"eventdiscovery/internal/logging"
)

// fakeRemote is a hand-written Remote double. Each call records the token
// it was given and returns the configured response or error.
type fakeRemote struct {
	loginResp    *api.AuthResponse
	loginErr     error
	registerResp *api.AuthResponse
	registerErr  error
	updateResp   *api.AuthResponse
	updateErr    error
	completeResp *api.User
	completeErr  error

	lastToken string
	calls     []string
}

func (f *fakeRemote) Login(_ context.Context, _, _ string) (*api.AuthResponse, error) {
	f.calls = append(f.calls, "login")
	return f.loginResp, f.loginErr
}

func (f *fakeRemote) Register(_ context.Context, _ api.RegisterParams) (*api.AuthResponse, error) {
	f.calls = append(f.calls, "register")
	return f.registerResp, f.registerErr
}

func (f *fakeRemote) UpdateProfile(_ context.Context, token string, _ api.UpdateProfileParams) (*api.AuthResponse, error) {
	f.calls = append(f.calls, "update")
	f.lastToken = token
	return f.updateResp, f.updateErr
}

func (f *fakeRemote) CompleteProfile(_ context.Context, token string, _ api.CompleteProfileParams) (*api.User, error) {
	f.calls = append(f.calls, "complete")
	f.lastToken = token
	return f.completeResp, f.completeErr
}

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func authResp(token string) *api.AuthResponse {
	return &api.AuthResponse{
		Token: token,
		User:  api.User{ID: 1, Name: "Ada", Email: "a@x.com"},
	}
}

func TestManager_RestoreResolution(t *testing.T) {
	t.Run("valid snapshot resolves to logged in", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(Snapshot{Token: "tok", User: api.User{ID: 1, Email: "a@x.com"}}))

		m := NewManager(store, &fakeRemote{}, testLogger())
		assert.Equal(t, StatusLoggingIn, m.Status(), "initial state is resolving")
		assert.Equal(t, StatusLoggedIn, m.Restore())

		user, ok := m.CurrentUser()
		require.True(t, ok)
		assert.Equal(t, "a@x.com", user.Email)
	})

	t.Run("no snapshot resolves to logged out", func(t *testing.T) {
		m := NewManager(NewStore(t.TempDir()), &fakeRemote{}, testLogger())
		assert.Equal(t, StatusLoggedOut, m.Restore())
	})

	t.Run("user without token is logged out", func(t *testing.T) {
		store := NewStore(t.TempDir())
		require.NoError(t, store.Save(Snapshot{User: api.User{ID: 1, Email: "a@x.com"}}))

		m := NewManager(store, &fakeRemote{}, testLogger())
		assert.Equal(t, StatusLoggedOut, m.Restore())

		_, ok := m.CurrentUser()
		assert.False(t, ok, "stale user data must not present as authenticated")
	})

	t.Run("corrupt file resolves to logged out", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, snapshotFile), []byte("garbage"), 0o600))

		m := NewManager(NewStore(dir), &fakeRemote{}, testLogger())
		assert.Equal(t, StatusLoggedOut, m.Restore())
	})

	// No remote calls happen during restore: resolution is local-only.
	remote := &fakeRemote{}
	m := NewManager(NewStore(t.TempDir()), remote, testLogger())
	m.Restore()
	assert.Empty(t, remote.calls)
}

func TestManager_LoginSuccessPersistsThenTransitions(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{loginResp: authResp("tok-1")}

	m := NewManager(store, remote, testLogger())
	m.Restore()

	res := m.Login(context.Background(), "a@x.com", "pw123456")
	require.True(t, res.OK, res.Message)
	assert.Equal(t, StatusLoggedIn, m.Status())
	assert.Equal(t, "tok-1", m.Token())

	// Survives a simulated process restart.
	m2 := NewManager(store, remote, testLogger())
	require.Equal(t, StatusLoggedIn, m2.Restore())
	user, ok := m2.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Ada", user.Name)
}

func TestManager_LoginFailureLeavesStoreUntouched(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{loginErr: &api.APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}}

	m := NewManager(store, remote, testLogger())
	m.Restore()

	res := m.Login(context.Background(), "a@x.com", "wrong")
	require.False(t, res.OK)
	assert.Equal(t, "Invalid email or password", res.Message)
	assert.Equal(t, StatusLoggedOut, m.Status())

	_, ok := store.Load()
	assert.False(t, ok, "no token may be persisted after a failed login")
}

func TestManager_TransportErrorHiddenBehindFallbackMessage(t *testing.T) {
	remote := &fakeRemote{loginErr: errors.New("dial tcp 127.0.0.1:8080: connect: connection refused")}

	m := NewManager(NewStore(t.TempDir()), remote, testLogger())
	m.Restore()

	res := m.Login(context.Background(), "a@x.com", "pw123456")
	require.False(t, res.OK)
	assert.Equal(t, "Login failed. Please try again.", res.Message,
		"raw transport errors must not reach the user")
	assert.NotContains(t, res.Message, "dial tcp")
}

func TestManager_LoginPersistFailureRollsBack(t *testing.T) {
	// Point the store at a path that cannot become a directory.
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))

	m := NewManager(NewStore(blocked), &fakeRemote{loginResp: authResp("tok-1")}, testLogger())
	m.Restore()

	res := m.Login(context.Background(), "a@x.com", "pw123456")
	require.False(t, res.OK)
	assert.Equal(t, StatusLoggedOut, m.Status())
	assert.Empty(t, m.Token())
}

func TestManager_RegisterSuccess(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{registerResp: authResp("tok-r")}

	m := NewManager(store, remote, testLogger())
	m.Restore()

	res := m.Register(context.Background(), api.RegisterParams{Name: "Ada", Email: "a@x.com", Password: "pw123456"})
	require.True(t, res.OK, res.Message)
	assert.Equal(t, StatusLoggedIn, m.Status())

	snap, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-r", snap.Token)
}

func TestManager_LogoutAlwaysEffectiveLocally(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{loginResp: authResp("tok-1")}

	m := NewManager(store, remote, testLogger())
	m.Restore()
	require.True(t, m.Login(context.Background(), "a@x.com", "pw123456").OK)

	res := m.Logout(context.Background())
	require.True(t, res.OK)
	assert.Equal(t, StatusLoggedOut, m.Status())
	assert.Empty(t, m.Token())

	_, ok := store.Load()
	assert.False(t, ok)

	_, ok = m.CurrentUser()
	assert.False(t, ok)

	// A protected operation after logout fails without reaching the wire.
	calls := len(remote.calls)
	upd := m.UpdateUser(context.Background(), api.UpdateProfileParams{})
	require.False(t, upd.OK)
	assert.Len(t, remote.calls, calls, "no remote call without a token")
}

func TestManager_UpdateUserMergesOverPersistedSnapshot(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{loginResp: authResp("tok-1")}

	m := NewManager(store, remote, testLogger())
	m.Restore()
	require.True(t, m.Login(context.Background(), "a@x.com", "pw123456").OK)

	updatedUser := api.User{ID: 1, Name: "Ada Lovelace", Email: "a@x.com", Bio: "new bio"}
	remote.updateResp = &api.AuthResponse{Token: "tok-2", User: updatedUser}

	name := "Ada Lovelace"
	res := m.UpdateUser(context.Background(), api.UpdateProfileParams{Name: &name})
	require.True(t, res.OK, res.Message)
	assert.Equal(t, "tok-1", remote.lastToken, "update carries the session token")
	assert.Equal(t, StatusLoggedIn, m.Status())

	// Simulated restart reflects the merged fields, not the pre-update data.
	m2 := NewManager(store, remote, testLogger())
	require.Equal(t, StatusLoggedIn, m2.Restore())
	user, ok := m2.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, "tok-2", m2.Token(), "reissued token replaces the old one")
}

func TestManager_UpdateUserFailureLeavesPriorSnapshot(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{loginResp: authResp("tok-1")}

	m := NewManager(store, remote, testLogger())
	m.Restore()
	require.True(t, m.Login(context.Background(), "a@x.com", "pw123456").OK)

	remote.updateErr = errors.New("network is down")

	name := "Ada Lovelace"
	res := m.UpdateUser(context.Background(), api.UpdateProfileParams{Name: &name})
	require.False(t, res.OK)
	assert.Equal(t, StatusLoggedIn, m.Status(), "failure returns to logged in with prior data")

	snap, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "Ada", snap.User.Name)
	assert.Equal(t, "tok-1", snap.Token)

	user, _ := m.CurrentUser()
	assert.Equal(t, "Ada", user.Name, "visible state not mutated on failure")
}

func TestManager_CompleteProfilePersists(t *testing.T) {
	store := NewStore(t.TempDir())
	remote := &fakeRemote{loginResp: authResp("tok-1")}

	m := NewManager(store, remote, testLogger())
	m.Restore()
	require.True(t, m.Login(context.Background(), "a@x.com", "pw123456").OK)

	remote.completeResp = &api.User{
		ID: 1, Name: "Ada", Email: "a@x.com", Bio: "about me",
		IsProfileCompleted: true,
		Interests:          []api.Interest{{ID: "t1", Name: "Music"}},
	}

	res := m.CompleteProfile(context.Background(), "about me", []api.Interest{{Name: "Music"}})
	require.True(t, res.OK, res.Message)

	snap, ok := store.Load()
	require.True(t, ok)
	assert.True(t, snap.User.IsProfileCompleted)
	assert.Equal(t, "tok-1", snap.Token, "token survives a profile completion")
	require.Len(t, snap.User.Interests, 1)
}
