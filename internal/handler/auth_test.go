package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-eng/storefront/internal/domain/auth"
)

var testSecret = []byte("test-secret")

type stubUsers struct {
	users map[string]*auth.User
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return u, nil
}

func signToken(t *testing.T, secret []byte, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	users := &stubUsers{users: map[string]*auth.User{
		"user-1": {ID: "user-1", Email: "ada@example.com"},
	}}
	var seen *auth.User
	h := RequireAuth(testSecret, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest(signToken(t, testSecret, "user-1")))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.ID)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	h := RequireAuth(testSecret, &stubUsers{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest(""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedToken(t *testing.T) {
	h := RequireAuth(testSecret, &stubUsers{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest("not-a-token"))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	h := RequireAuth(testSecret, &stubUsers{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest(signToken(t, []byte("other-secret"), "user-1")))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	h := RequireAuth(testSecret, &stubUsers{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest(signed))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	h := RequireAuth(testSecret, &stubUsers{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest(signToken(t, testSecret, "ghost")))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuth_MissingSubject(t *testing.T) {
	token := jwt.New(jwt.SigningMethodHS256)
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	h := RequireAuth(testSecret, &stubUsers{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authRequest(signed))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
