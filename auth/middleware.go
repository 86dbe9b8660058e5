package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/accounts-go/apperror"
)

// Identity describes an authenticated caller. Any identity may act on any
// resource; there are no roles or scopes.
type Identity struct {
	ID    string
	Email string
}

// SubjectResolver maps a verified token subject to a stored identity. The
// user directory implements it.
type SubjectResolver interface {
	ResolveSubject(ctx context.Context, email string) (*Identity, error)
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

// RequireAuth returns middleware that rejects requests without a valid bearer
// token. On success the resolved identity is stored in the request context.
// A token whose subject no longer resolves to an account (deleted after
// issuance) is rejected with 401 like any other invalid token.
func RequireAuth(tokens *TokenService, resolver SubjectResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid or expired token", err))
				return
			}

			identity, err := resolver.ResolveSubject(r.Context(), subject)
			if err != nil {
				if apperror.IsNotFound(err) {
					WriteError(w, r, apperror.NewAuthError("invalid or expired token", nil))
					return
				}
				WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the identity stored by RequireAuth.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok
}
