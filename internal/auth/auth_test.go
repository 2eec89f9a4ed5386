package auth

import (
	"testing"
	"time"

	"github.com/anonto42/nano-midea/accounts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue(&models.Account{ID: "abc", Email: "a@x.com"})
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
}

func TestTokenManager_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenManager("secret", time.Hour).Issue(&models.Account{ID: "abc"})
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.Issue(&models.Account{ID: "abc"})
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}

func TestResetToken(t *testing.T) {
	plain, hash, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, plain, 2*resetTokenBytes)
	assert.Equal(t, hash, HashResetToken(plain))
	assert.NotEqual(t, plain, hash)

	other, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, plain, other)
}
