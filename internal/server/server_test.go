package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"eventdiscovery/internal/logging"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := &Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	srv := New(db, cfg, logging.NewTextLogger(io.Discard, slog.LevelError))
	return srv, srv.Router()
}

// perform runs one request against the router. A non-empty token goes out
// as a bearer header; a non-nil body is JSON-encoded.
func perform(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// performRaw sends a request with the Authorization header exactly as
// given (empty means no header), for exercising middleware failure modes.
func performRaw(t *testing.T, router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, router *gin.Engine, name, email, password string) AuthResponse {
	t.Helper()
	w := perform(t, router, http.MethodPost, "/users", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[AuthResponse](t, w)
}

func createEvent(t *testing.T, router *gin.Engine, token string, body gin.H) EventResponse {
	t.Helper()
	w := perform(t, router, http.MethodPost, "/events", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[EventResponse](t, w)
}
