// Package auth contains the authentication core: password hashing, signed
// token issuance and verification, and the request guard that gates protected
// routes. Everything here is stateless and safe for concurrent use.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher performs one-way salted hashing of credentials using bcrypt.
// Each Hash call embeds a fresh random salt, so two hashes of the same
// password are never byte-identical and digests must be checked with Verify,
// not compared for equality.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the default bcrypt cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash derives a salted digest from a plaintext password.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. The comparison is
// constant-time and a malformed digest yields false, never a panic.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
