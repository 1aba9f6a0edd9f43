package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/model"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func decodeLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestLogger_NeverLogsCredentials(t *testing.T) {
	t.Parallel()

	logger, buf := captureLogger()
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	body := strings.NewReader(`{"email":"a@example.com","password":"super_secret_password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login?message=lost+my+passport", body)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "eyJhbGciOiJIUzI1NiJ9.access.sig"})
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: "eyJhbGciOiJIUzI1NiJ9.refresh.sig"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, secret := range []string{"super_secret_password", "eyJhbGciOiJIUzI1NiJ9", "passport", auth.RefreshTokenCookie} {
		assert.NotContains(t, out, secret)
	}
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()

	logger, buf := captureLogger()
	h := RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})))

	req := httptest.NewRequest(http.MethodPost, "/products/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req.Header.Set("User-Agent", "TestBrowser/2.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLogLine(t, buf)
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/products/", entry["path"])
	assert.EqualValues(t, 201, entry["status_code"])
	assert.EqualValues(t, 11, entry["bytes"])
	assert.Equal(t, "TestBrowser/2.0", entry["user_agent"])
	assert.Contains(t, entry, "duration_ms")
	assert.NotContains(t, entry, "user_id")
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{0, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusTooManyRequests, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		logger, buf := captureLogger()
		h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tt.status != 0 {
				w.WriteHeader(tt.status)
			}
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		entry := decodeLogLine(t, buf)
		assert.Equal(t, tt.level, entry["level"], "status %d", tt.status)
	}
}

func TestLogger_RecordsAuthenticatedUser(t *testing.T) {
	t.Parallel()

	tokens := newTokens()
	token, err := tokens.IssueAccessToken(&model.User{ID: "u1", Email: "a@example.com", Role: model.RoleAgent})
	require.NoError(t, err)

	logger, buf := captureLogger()
	h := Logger(logger)(Authenticate(AuthConfig{Logger: discardLogger(), Tokens: tokens})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	))

	req := httptest.NewRequest(http.MethodGet, "/products/list", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLogLine(t, buf)
	assert.Equal(t, "u1", entry["user_id"])
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"client id reused", "abc-123", true},
		{"whitespace rejected", "abc 123", false},
		{"oversized rejected", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}
