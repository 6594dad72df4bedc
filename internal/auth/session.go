package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"
)

var (
	ErrUnauthorized  = errors.New("invalid or expired admin session")
	ErrNotConfigured = errors.New("admin password is not configured")
)

// Sessions holds active admin tokens in process memory. A restart
// invalidates every session; there is no session table and nothing
// persisted to leak.
type Sessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]time.Time
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

// Issue mints a fresh token (256 bits of entropy, URL-safe) and records
// its expiry.
func (s *Sessions) Issue() (token string, expiresAt time.Time) {
	b := make([]byte, 32)
	_, _ = rand.Read(b) // never fails (crypto/rand)
	token = base64.RawURLEncoding.EncodeToString(b)
	expiresAt = s.now().UTC().Add(s.ttl)

	s.mu.Lock()
	s.tokens[token] = expiresAt
	s.mu.Unlock()
	return token, expiresAt
}

// Validate reports whether token belongs to an active session. Expired
// entries are purged as a side effect; there is no background sweep.
// Absent, expired, and empty tokens all fail the same way.
func (s *Sessions) Validate(token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.tokens[token]
	if !ok {
		return ErrUnauthorized
	}
	if !expiresAt.After(s.now()) {
		delete(s.tokens, token)
		return ErrUnauthorized
	}
	return nil
}

// Revoke drops the session if it exists. Revoking an unknown token is a
// no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}
