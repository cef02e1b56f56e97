package middleware

import (
	"context"
	"net/http"

	"github.com/akanis/studio/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// OperatorKey is the context key for the authenticated operator's email.
const OperatorKey contextKey = "operator"

// SessionCookie is the cookie RequireAuth reads the session token from.
const SessionCookie = "auth_token"

// TokenVerifier validates a session token and returns its subject.
type TokenVerifier interface {
	VerifySubject(token string) (string, error)
}

// RequireAuth returns middleware that validates the session cookie and injects the
// operator into the request context. Every failure is a 401.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			operator, err := verifier.VerifySubject(cookie.Value)
			if err != nil {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), OperatorKey, operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Operator returns the authenticated operator's email, or "" outside RequireAuth.
func Operator(ctx context.Context) string {
	v, _ := ctx.Value(OperatorKey).(string)
	return v
}
