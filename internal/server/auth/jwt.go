// Package auth implements the credential primitives of the server: bcrypt
// password hashing and HS256 JWT issuing/verification.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkau/taskkeeper/internal/common"
)

// Claims carries the registered claims plus the user's email. The subject
// holds the decimal user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is the authenticated caller reconstructed from a verified token.
// It is derived per request and never persisted.
type Identity struct {
	UserID int64
	Email  string
}

// GenerateToken signs an HS256 token bound to the user's id and email,
// expiring validityDuration from now.
func GenerateToken(userID int64, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of tokenString and returns the
// identity it encodes. Expired tokens yield common.ErrTokenExpired; every
// other failure (bad signature, malformed payload, wrong algorithm) yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}
