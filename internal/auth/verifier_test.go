package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPlaintextSecret(t *testing.T) {
	v := NewVerifier("correct horse battery staple")

	assert.NoError(t, v.Verify("correct horse battery staple"))
	assert.ErrorIs(t, v.Verify("wrong password"), ErrUnauthorized)
	assert.ErrorIs(t, v.Verify(""), ErrUnauthorized)
	// same prefix, different length
	assert.ErrorIs(t, v.Verify("correct horse battery staple!"), ErrUnauthorized)
}

func TestVerifyBcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clinic-admin-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewVerifier(string(hash))
	assert.NoError(t, v.Verify("clinic-admin-pw"))
	assert.ErrorIs(t, v.Verify("not-the-password"), ErrUnauthorized)
}

func TestVerifyUnconfigured(t *testing.T) {
	v := NewVerifier("")

	err := v.Verify("anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
	// a server misconfiguration must not read as a bad password
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
