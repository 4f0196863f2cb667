package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("user@example.com", testSecret, time.Hour, "uaa-test")
	require.NoError(t, err, "Generation should not return an error")
	assert.NotEmpty(t, token, "Token should not be empty")

	claims, err := ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err, "Parsing a fresh token should not return an error")
	assert.Equal(t, "user@example.com", claims.Subject, "Subject should survive the round trip")
	assert.Equal(t, "uaa-test", claims.Issuer, "Issuer should survive the round trip")
	assert.True(t, claims.ExpiresAt.After(time.Now()), "Expiry should be in the future")
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("user@example.com", testSecret, -time.Minute, "uaa-test")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, testSecret)
	assert.Error(t, err, "Expired token should not parse")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired, "Error should indicate expiry")
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("user@example.com", testSecret, time.Hour, "uaa-test")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "a-different-secret")
	assert.Error(t, err, "Token signed with another secret should not parse")
}

func TestParseJWT_Tampered(t *testing.T) {
	token, err := GenerateJWT("user@example.com", testSecret, time.Hour, "uaa-test")
	require.NoError(t, err)

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = ParseAndValidateJWT(tampered, testSecret)
	assert.Error(t, err, "Tampered token should not parse")
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseAndValidateJWT("not-a-jwt-at-all", testSecret)
	assert.Error(t, err, "Garbage input should not parse")
}

func TestHashRefreshToken(t *testing.T) {
	token, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, token, 64, "32 random bytes should hex-encode to 64 characters")

	hash := HashRefreshToken(token)
	assert.NotEqual(t, token, hash, "Hash should differ from the token")
	assert.Equal(t, hash, HashRefreshToken(token), "Hashing should be deterministic")

	other, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, hash, HashRefreshToken(other), "Distinct tokens should hash differently")

	assert.True(t, CompareRefreshTokenHash(token, hash), "Token should match its own hash")
	assert.False(t, CompareRefreshTokenHash(other, hash), "Other token should not match")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash, "Hash should not be the plaintext")

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash), "Correct password should verify")
	assert.False(t, CheckPasswordHash("wrong password", hash), "Wrong password should not verify")
}
