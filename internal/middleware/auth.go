package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wyhaines/boards/internal/domain"
	"github.com/wyhaines/boards/internal/utils"
	jwt_internal "github.com/wyhaines/boards/internal/utils/jwt"
)

// Key to store the caller principal in the request context
type key int

const principalKey key = 0

// Auth verifies the caller's token and stores their principal id in the
// request context. Tokens come from the Authorization header (Bearer) or the
// accessToken cookie.
func Auth(jwtService jwt_internal.JwtService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				http.Error(w, "Missing access token", http.StatusUnauthorized)
				return
			}

			user, err := jwtService.DecodeToken(tokenStr)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// Principal retrieves the caller's id from the context. Empty outside Auth.
func Principal(r *http.Request) domain.UserId {
	user, ok := r.Context().Value(principalKey).(domain.UserId)
	if !ok {
		return ""
	}
	return user
}

// WithPrincipal is a test helper to fake an authenticated request.
func WithPrincipal(r *http.Request, user domain.UserId) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, user))
}
