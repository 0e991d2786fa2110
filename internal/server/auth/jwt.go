// Package auth implements the credential codec: signed, time-limited
// session tokens bound to a user id, plus password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventdiscovery/internal/apperrors"
)

// Claims carries the standard registered claims plus the bound user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

// TokenTTL is the session token lifetime.
const TokenTTL = 30 * 24 * time.Hour

// IssueToken signs an HS256 token embedding userID with an expiration ttl
// from now.
func IssueToken(userID uint, secret []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})
	return token.SignedString(secret)
}

// VerifyToken validates signature and expiry and returns the embedded user
// id. Every failure mode (bad signature, malformed payload, expiry) comes
// back as apperrors.ErrUnauthenticated; a token is binary valid or invalid.
func VerifyToken(tokenString string, secret []byte) (uint, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperrors.ErrUnauthenticated
	}
	if claims.UserID == 0 {
		return 0, apperrors.ErrUnauthenticated
	}
	return claims.UserID, nil
}
