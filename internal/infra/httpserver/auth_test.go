package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpRequestWithCookie(env *testEnv, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"secret"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "admin", body["username"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuardedEndpointsRequireSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/notifications", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, false, body["success"])
}

func TestLogoutDestroysSession(t *testing.T) {
	env := newTestEnv(t)

	login := env.request(t, http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"admin","password":"secret"}`))
	require.Equal(t, http.StatusOK, login.Code)
	cookie := login.Result().Cookies()[0]

	logout := httpRequestWithCookie(env, http.MethodPost, "/api/auth/logout", cookie)
	require.Equal(t, http.StatusOK, logout.Code)

	// The old token must no longer open guarded endpoints.
	after := httpRequestWithCookie(env, http.MethodGet, "/api/notifications", cookie)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, "ok", body["status"])
}
