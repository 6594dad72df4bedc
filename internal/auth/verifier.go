package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a supplied password against the single configured
// admin secret. The secret may be plaintext or a bcrypt hash; deployments
// that do not want the password readable in the environment can store
// the hash instead.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify returns nil on a match, ErrUnauthorized on a mismatch, and
// ErrNotConfigured when no secret is set. A missing secret is a server
// problem and is never reported as a bad password.
func (v *Verifier) Verify(password string) error {
	if v.secret == "" {
		return ErrNotConfigured
	}
	if isBcryptHash(v.secret) {
		if bcrypt.CompareHashAndPassword([]byte(v.secret), []byte(password)) != nil {
			return ErrUnauthorized
		}
		return nil
	}
	// hash both sides so the compare leaks neither content nor length
	got := sha256.Sum256([]byte(password))
	want := sha256.Sum256([]byte(v.secret))
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
