// Package auth signs and validates the identity server's tokens and hashes
// user passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken signs claims with HS256. Subject, IssuedAt, ExpiresAt and a
// fresh jti are filled in; the rest of claims is kept as given.
func GenerateToken(claims identity.Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()

	claims.Subject = claims.Identifier()
	claims.ID = uuid.NewString()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// ParseToken checks the signature and expiry of tokenString and returns its
// claims. Expired tokens yield ErrTokenExpired, everything else ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*identity.Claims, error) {
	claims := &identity.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Identifier() == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
