package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront-eng/storefront/internal/domain/auth"
)

// userKey is the context key for the authenticated user.
type userKey struct{}

// UserFromContext extracts the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(userKey{}).(*auth.User)
	return u, ok
}

// RequireAuth returns a middleware that verifies the bearer token (HS256,
// subject claim is the user id), resolves the user, and stores it in the
// request context. Missing tokens get 401; invalid tokens or unknown users
// get 403.
func RequireAuth(secret []byte, users auth.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeFail(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			token, err := jwt.Parse(raw,
				func(*jwt.Token) (any, error) { return secret, nil },
				jwt.WithValidMethods([]string{"HS256"}),
			)
			if err != nil || !token.Valid {
				writeFail(w, http.StatusForbidden, "invalid token")
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				writeFail(w, http.StatusForbidden, "invalid token")
				return
			}

			user, err := users.GetByID(r.Context(), sub)
			if err != nil {
				if errors.Is(err, auth.ErrUserNotFound) {
					writeFail(w, http.StatusForbidden, "invalid token")
					return
				}
				writeError(w, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
