package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateToken(t *testing.T) {
	tok, err := CreateToken(EmailVerificationTTL)
	require.NoError(t, err)

	assert.Len(t, tok.Token, 64) // 32 random bytes, hex encoded
	assert.Equal(t, HashToken(tok.Token), tok.TokenHash)
	assert.NotEqual(t, tok.Token, tok.TokenHash)
	assert.WithinDuration(t, time.Now().Add(EmailVerificationTTL), tok.ExpiresAt, time.Minute)
}

func TestCreateTokenUnique(t *testing.T) {
	a, err := CreateToken(PasswordResetTTL)
	require.NoError(t, err)
	b, err := CreateToken(PasswordResetTTL)
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, a.TokenHash, b.TokenHash)
}

func TestVerifyToken(t *testing.T) {
	tok, err := CreateToken(time.Hour)
	require.NoError(t, err)

	assert.True(t, VerifyToken(tok.Token, tok.TokenHash, &tok.ExpiresAt))
}

func TestVerifyTokenRejections(t *testing.T) {
	tok, err := CreateToken(time.Hour)
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)

	other, err := CreateToken(time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		raw       string
		hash      string
		expiresAt *time.Time
	}{
		{"empty raw token", "", tok.TokenHash, &tok.ExpiresAt},
		{"empty stored hash", tok.Token, "", &tok.ExpiresAt},
		{"nil expiry", tok.Token, tok.TokenHash, nil},
		{"expired token", tok.Token, tok.TokenHash, &expired},
		{"wrong token", other.Token, tok.TokenHash, &tok.ExpiresAt},
		{"raw token instead of hash", tok.Token, tok.Token, &tok.ExpiresAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyToken(tt.raw, tt.hash, tt.expiresAt))
		})
	}
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-password", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}
