package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identify a party. The subject is the party token itself.
type Claims struct {
	Party string `json:"party"`
	jwt.RegisteredClaims
}

var ErrMissingParty = errors.New("token names no party")

// GenerateToken signs a token for party valid for ttl.
func GenerateToken(secret, party string, ttl time.Duration) (string, error) {
	if party == "" {
		return "", ErrMissingParty
	}
	now := time.Now()
	claims := &Claims{
		Party: party,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   party,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks the signature and expiry of tokenString and returns
// its claims.
func ValidateToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" || claims.Party != claims.Subject {
		return nil, ErrMissingParty
	}
	return claims, nil
}
