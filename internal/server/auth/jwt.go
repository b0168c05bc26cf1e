// Package auth issues and checks the access tokens that carry a caller's
// identity. The identity travels as the token subject.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims; Subject holds the caller identity.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for subject. Derived vault identities never
// get one.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	if authority.IsDerived(subject) {
		return "", common.ErrInvalidToken
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", err
	}

	if !token.Valid || claims.Subject == "" || authority.IsDerived(claims.Subject) {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
