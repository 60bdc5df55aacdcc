package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/config"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestVerifier() *TokenVerifier {
	return NewTokenVerifier(config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "storefront",
	})
}

// signToken mints a token the way the storefront account service does
func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storefront",
			Subject:   "user-17",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: "user-17",
		Name:   "Jane Doe",
		Email:  "jane@example.com",
	}
}

func TestTokenVerifier_Verify_Success(t *testing.T) {
	verifier := newTestVerifier()
	tokenString := signToken(t, testSecret, validClaims())

	profile, err := verifier.Verify(tokenString)

	require.NoError(t, err)
	assert.Equal(t, "user-17", profile.UserID)
	assert.Equal(t, "Jane Doe", profile.Name)
	assert.Equal(t, "jane@example.com", profile.Email)
}

func TestTokenVerifier_Verify_WrongSecret(t *testing.T) {
	verifier := newTestVerifier()
	tokenString := signToken(t, "another-secret-key-32-characters!", validClaims())

	_, err := verifier.Verify(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifier_Verify_Expired(t *testing.T) {
	verifier := newTestVerifier()
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	tokenString := signToken(t, testSecret, claims)

	_, err := verifier.Verify(tokenString)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenVerifier_Verify_NotYetValid(t *testing.T) {
	verifier := newTestVerifier()
	claims := validClaims()
	claims.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
	tokenString := signToken(t, testSecret, claims)

	_, err := verifier.Verify(tokenString)

	assert.ErrorIs(t, err, ErrTokenNotYetValid)
}

func TestTokenVerifier_Verify_WrongIssuer(t *testing.T) {
	verifier := newTestVerifier()
	claims := validClaims()
	claims.Issuer = "someone-else"
	tokenString := signToken(t, testSecret, claims)

	_, err := verifier.Verify(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifier_Verify_MissingUserID(t *testing.T) {
	verifier := newTestVerifier()
	claims := validClaims()
	claims.UserID = ""
	tokenString := signToken(t, testSecret, claims)

	_, err := verifier.Verify(tokenString)

	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestTokenVerifier_Verify_RejectsUnsignedToken(t *testing.T) {
	verifier := newTestVerifier()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, verifyErr := verifier.Verify(tokenString)

	assert.ErrorIs(t, verifyErr, ErrInvalidToken)
}

func TestTokenVerifier_Verify_Garbage(t *testing.T) {
	verifier := newTestVerifier()

	_, err := verifier.Verify("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}
