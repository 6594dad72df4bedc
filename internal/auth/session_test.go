package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueThenValidate(t *testing.T) {
	s := NewSessions(8 * time.Hour)

	token, expiresAt := s.Issue()
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(8*time.Hour), expiresAt, time.Minute)

	require.NoError(t, s.Validate(token))
}

func TestTokenShape(t *testing.T) {
	s := NewSessions(time.Hour)

	seen := make(map[string]bool)
	for range 50 {
		token, _ := s.Issue()
		// 32 bytes, raw url-safe base64
		assert.Len(t, token, 43)
		assert.False(t, seen[token], "duplicate token issued")
		seen[token] = true
	}
}

func TestValidateUnknownToken(t *testing.T) {
	s := NewSessions(time.Hour)

	assert.ErrorIs(t, s.Validate("no-such-token"), ErrUnauthorized)
	assert.ErrorIs(t, s.Validate(""), ErrUnauthorized)
}

func TestExpiredTokenIsPurged(t *testing.T) {
	s := NewSessions(time.Hour)
	token, _ := s.Issue()

	// move the clock past expiry
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	require.ErrorIs(t, s.Validate(token), ErrUnauthorized)

	s.mu.Lock()
	_, stillThere := s.tokens[token]
	s.mu.Unlock()
	assert.False(t, stillThere, "expired token should be removed on validate")

	// second attempt fails the same way
	assert.ErrorIs(t, s.Validate(token), ErrUnauthorized)
}

func TestRevoke(t *testing.T) {
	s := NewSessions(time.Hour)
	token, _ := s.Issue()

	s.Revoke(token)
	assert.ErrorIs(t, s.Validate(token), ErrUnauthorized)

	// revoking again is a no-op
	s.Revoke(token)
	s.Revoke("never-issued")
}

func TestConcurrentSessionOps(t *testing.T) {
	s := NewSessions(time.Hour)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _ := s.Issue()
			if err := s.Validate(token); err != nil {
				t.Errorf("validate freshly issued token: %v", err)
			}
			s.Revoke(token)
			if err := s.Validate(token); err == nil {
				t.Error("revoked token still validates")
			}
		}()
	}
	wg.Wait()
}
