package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingUserID    = errors.New("missing user_id in claims")
)

// Claims represents the storefront account claims carried in a login token
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// TokenVerifier validates storefront login tokens. Tokens are issued by the
// storefront account service; checkout only verifies them, it never mints
// its own.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a new token verifier
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	return &TokenVerifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Verify validates a login token and returns the account profile it carries
func (v *TokenVerifier) Verify(tokenString string) (checkout.UserProfile, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return checkout.UserProfile{}, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return checkout.UserProfile{}, ErrTokenNotYetValid
		}
		return checkout.UserProfile{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return checkout.UserProfile{}, ErrInvalidClaims
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return checkout.UserProfile{}, ErrInvalidToken
	}
	if claims.UserID == "" {
		return checkout.UserProfile{}, ErrMissingUserID
	}

	return checkout.UserProfile{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}
