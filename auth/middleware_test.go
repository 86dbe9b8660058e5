package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/accounts-go/apperror"
)

type stubResolver struct {
	identity *Identity
	err      error
}

func (s *stubResolver) ResolveSubject(ctx context.Context, email string) (*Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tokens := NewTokenService("super-secret", time.Hour)
	validToken, err := tokens.Issue("a@x.com")
	require.NoError(t, err)

	expiredService := &TokenService{secret: []byte("super-secret"), ttl: -time.Minute}
	expiredToken, err := expiredService.Issue("a@x.com")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		resolver   SubjectResolver
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-token",
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + expiredToken,
			resolver:   &stubResolver{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "subject no longer exists",
			authHeader: "Bearer " + validToken,
			resolver:   &stubResolver{err: apperror.NewNotFoundError("user not found", nil)},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "resolver failure",
			authHeader: "Bearer " + validToken,
			resolver:   &stubResolver{err: apperror.NewDatabaseError("connection refused", nil)},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "valid token",
			authHeader: "Bearer " + validToken,
			resolver:   &stubResolver{identity: &Identity{ID: "u1", Email: "a@x.com"}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIdentity *Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotIdentity, _ = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/users/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			RequireAuth(tokens, tt.resolver)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, gotIdentity)
				assert.Equal(t, "u1", gotIdentity.ID)
				assert.Equal(t, "a@x.com", gotIdentity.Email)
			} else {
				assert.Nil(t, gotIdentity)
			}
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	t.Parallel()

	identity, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
	assert.Nil(t, identity)
}
