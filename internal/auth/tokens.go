package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// One-time token TTLs. Email verification and password reset are
// independent token classes stored in separate user fields; a token from
// one class never satisfies the other's lookup.
const (
	EmailVerificationTTL = 24 * time.Hour
	PasswordResetTTL     = time.Hour
)

// OneTimeToken pairs the raw token (sent to the user, never persisted)
// with the hash that goes in the database and its absolute expiry.
type OneTimeToken struct {
	Token     string
	TokenHash string
	ExpiresAt time.Time
}

// CreateToken generates a 32-byte random token.
func CreateToken(ttl time.Duration) (OneTimeToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return OneTimeToken{}, err
	}
	token := hex.EncodeToString(b)
	return OneTimeToken{
		Token:     token,
		TokenHash: HashToken(token),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashToken is the one-way hash persisted in place of the raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyToken checks a raw token against the stored hash and expiry.
// Expired tokens fail even with a matching hash.
func VerifyToken(raw, storedHash string, expiresAt *time.Time) bool {
	if raw == "" || storedHash == "" || expiresAt == nil {
		return false
	}
	if time.Now().After(*expiresAt) {
		return false
	}
	hash := HashToken(raw)
	return subtle.ConstantTimeCompare([]byte(hash), []byte(storedHash)) == 1
}
