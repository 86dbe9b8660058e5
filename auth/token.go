package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Callers must treat any of these as "not
// authenticated"; a token that fails one check is never partially trusted.
var (
	// ErrInvalidSignature means the token was tampered with or signed with a
	// different secret or algorithm.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired means the token's expiry instant has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrMalformedClaims means the token could not be decoded or is missing a
	// required claim.
	ErrMalformedClaims = errors.New("malformed token claims")
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// TokenService issues and verifies signed, expiring bearer tokens. Tokens are
// HS256 JWTs carrying the subject (the user's email) and an expiry; no
// server-side state is kept, so a token cannot be revoked before it expires
// and rotating the secret invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService signing with secret. A non-positive
// ttl falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for subject, expiring after the configured TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of an encoded token and returns its
// subject. Failures map to ErrInvalidSignature, ErrTokenExpired or
// ErrMalformedClaims.
func (s *TokenService) Verify(encoded string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(encoded, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return "", ErrMalformedClaims
		default:
			return "", ErrInvalidSignature
		}
	}
	if !token.Valid {
		return "", ErrInvalidSignature
	}
	if claims.Subject == "" {
		return "", ErrMalformedClaims
	}
	return claims.Subject, nil
}
