package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketloop/authd/adapters/password"
	"github.com/marketloop/authd/adapters/registry"
	"github.com/marketloop/authd/adapters/tokenizer"
	"github.com/marketloop/authd/adapters/userstore"
	"github.com/marketloop/authd/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *registry.MemoryRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := userstore.NewMemoryStore()
	reg := registry.NewMemoryRegistry(0)
	tk := tokenizer.NewJWTTokenizer([]byte("access-secret"), []byte("refresh-secret"), 0, 0)
	svc := service.NewAuthService(users, reg, tk, password.NewBcryptHasher(4), nil, nil)

	cookies := CookieConfig{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	return SetupRouter(svc, cookies, nil), reg
}

func doJSON(router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func cookieByName(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSignupSetsCookiesAndReturnsUser(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email":    "a@x.com",
		"password": "password",
		"name":     "A",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "customer", user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotContains(t, w.Body.String(), "password")

	access := cookieByName(t, w, AccessCookie)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, int((15 * time.Minute).Seconds()), access.MaxAge)

	refresh := cookieByName(t, w, RefreshCookie)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, refresh.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), refresh.MaxAge)
}

func TestSignupDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	body := gin.H{"email": "a@x.com", "password": "password", "name": "A"}
	w := doJSON(router, http.MethodPost, "/auth/signup", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/signup", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestSignupRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{"email": "not-an-email"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email": "a@x.com", "password": "password", "name": "A",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "a@x.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "nobody@x.com", "password": "password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/refresh", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWithGarbledCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/refresh", nil, []*http.Cookie{
		{Name: RefreshCookie, Value: "garbled"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutCookieStillClears(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	access := cookieByName(t, w, AccessCookie)
	assert.Empty(t, access.Value)
	assert.Less(t, access.MaxAge, 0)

	refresh := cookieByName(t, w, RefreshCookie)
	assert.Empty(t, refresh.Value)
	assert.Less(t, refresh.MaxAge, 0)
}

func TestLogoutWithGarbledCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/logout", nil, []*http.Cookie{
		{Name: RefreshCookie, Value: "garbled"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Cookies are cleared even on a bad token
	assert.Empty(t, cookieByName(t, w, RefreshCookie).Value)
}

func TestProfileRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Full session lifecycle: signup, login, refresh, profile, logout, refresh again
func TestSessionLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email": "a@x.com", "password": "password", "name": "A",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "a@x.com", "password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	accessCookie := cookieByName(t, w, AccessCookie)
	refreshCookie := cookieByName(t, w, RefreshCookie)

	// Refresh issues a fresh access cookie; the refresh cookie stays valid
	w = doJSON(router, http.MethodPost, "/auth/refresh", nil, []*http.Cookie{refreshCookie})
	require.Equal(t, http.StatusOK, w.Code)
	newAccess := cookieByName(t, w, AccessCookie)
	assert.NotEmpty(t, newAccess.Value)

	// Profile with the refreshed access token
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.AddCookie(newAccess)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "a@x.com", profile.Email)

	// Access token also accepted as a bearer header
	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+accessCookie.Value)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Logout revokes the session
	w = doJSON(router, http.MethodPost, "/auth/logout", nil, []*http.Cookie{refreshCookie})
	require.Equal(t, http.StatusOK, w.Code)

	// The refresh token is now dead
	w = doJSON(router, http.MethodPost, "/auth/refresh", nil, []*http.Cookie{refreshCookie})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A second login supersedes the first session's refresh token
func TestSecondLoginSupersedesFirst(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/signup", gin.H{
		"email": "a@x.com", "password": "password", "name": "A",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "a@x.com", "password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	firstRefresh := cookieByName(t, w, RefreshCookie)

	w = doJSON(router, http.MethodPost, "/auth/login", gin.H{
		"email": "a@x.com", "password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	secondRefresh := cookieByName(t, w, RefreshCookie)
	require.NotEqual(t, firstRefresh.Value, secondRefresh.Value)

	w = doJSON(router, http.MethodPost, "/auth/refresh", nil, []*http.Cookie{firstRefresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/auth/refresh", nil, []*http.Cookie{secondRefresh})
	assert.Equal(t, http.StatusOK, w.Code)
}
