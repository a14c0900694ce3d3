package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

func TestLogin_AdminGetsSessionCookie(t *testing.T) {
	f := newFixture(t)

	cookie := f.login(t)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.InDelta(t, 3600, cookie.MaxAge, 5)
	assert.True(t, f.redis.Exists("edubot:session:"+cookie.Value))

	require.Len(t, f.sm.activity.entries, 1)
	assert.Equal(t, models.ActionAdminLogin, f.sm.activity.entries[0].Action)
	assert.Equal(t, []string{"admin-1"}, f.sm.activity.actors)
}

func TestLogin_StudentIsForbidden(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/login", `{"email":"student@edubot.vn","password":"secret"}`, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			assert.Empty(t, c.Value)
		}
	}
	assert.Empty(t, f.redis.Keys())
	assert.Empty(t, f.sm.activity.entries)
}

func TestLogin_BadCredentialsAndBadInput(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/auth/login", `{"email":"admin@edubot.vn","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"secret"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)

	rec = f.do(t, http.MethodPost, "/auth/login", `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionGate_AnonymousRequests(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/console", "", nil, "Accept", "text/html,application/xhtml+xml")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/api/v1/users", "", nil, "Accept", "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/users", "", &http.Cookie{Name: testCookie, Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionGate_PassesAuthenticatedAdmin(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/users", "", cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/login", "", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/console", rec.Header().Get("Location"))
}

func TestLogout_EndsSessionAndWorkspace(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/console", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.registry.Len())

	rec = f.do(t, http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.registry.Len())

	rec = f.do(t, http.MethodGet, "/api/v1/users", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/auth/session", "", cookie)
	assert.JSONEq(t, `{"isAuthenticated":false}`, rec.Body.String())
}

func TestSession_ReportsSignedInAdmin(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/auth/session", "", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isAuthenticated":true`)
	assert.Contains(t, rec.Body.String(), `"email":"admin@edubot.vn"`)
	assert.NotContains(t, rec.Body.String(), "token-admin-1")
}

// clearedCookie reports whether the response expires the session cookie
func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestLogin_FailedAttemptEndsHeldSession(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"non-admin account", `{"email":"student@edubot.vn","password":"secret"}`, http.StatusForbidden},
		{"wrong password", `{"email":"admin@edubot.vn","password":"wrong"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cookie := f.login(t)
			rec := f.do(t, http.MethodGet, "/console", "", cookie)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, 1, f.registry.Len())

			rec = f.do(t, http.MethodPost, "/auth/login", tt.body, cookie)

			assert.Equal(t, tt.status, rec.Code)
			assert.True(t, clearedCookie(rec))
			assert.False(t, f.redis.Exists("edubot:session:"+cookie.Value))
			assert.Zero(t, f.registry.Len())

			rec = f.do(t, http.MethodGet, "/api/v1/users", "", cookie)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestLogin_ReplacesHeldSession(t *testing.T) {
	f := newFixture(t)
	first := f.login(t)

	rec := f.do(t, http.MethodPost, "/auth/login", `{"email":"admin@edubot.vn","password":"secret"}`, first)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.False(t, f.redis.Exists("edubot:session:"+first.Value))
	assert.False(t, clearedCookie(rec))
	rec = f.do(t, http.MethodGet, "/api/v1/users", "", first)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionGate_ExpiredSessionClosesWorkspace(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)
	rec := f.do(t, http.MethodGet, "/console", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, f.registry.Len())

	f.redis.FastForward(2 * time.Hour)

	rec = f.do(t, http.MethodGet, "/console", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, clearedCookie(rec))
	assert.Zero(t, f.registry.Len())
}
