// Package jwtutil issues and verifies the HS256 bearer tokens used by the HTTP API.
//
// The subject claim always carries the numeric user id as a base-10 string ("42").
package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	Username string `json:"username"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	jwt.RegisteredClaims
}

// Identity is the caller information carried by a token.
type Identity struct {
	UserID   uint
	Username string
	Nombre   string
	Apellido string
}

// GenerateToken signs a token for identity that expires after ttl.
func GenerateToken(secret string, ttl time.Duration, identity Identity, now time.Time) (string, error) {
	if identity.UserID == 0 {
		return "", errors.New("generate token: user id is zero")
	}
	claims := Claims{
		Username: identity.Username,
		Nombre:   identity.Nombre,
		Apellido: identity.Apellido,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   FormatSubject(identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature, algorithm and expiry and returns the caller identity.
// Every failure is reported as ErrInvalidToken wrapping the underlying cause.
func ParseToken(secret, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := ParseSubject(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &Identity{
		UserID:   userID,
		Username: claims.Username,
		Nombre:   claims.Nombre,
		Apellido: claims.Apellido,
	}, nil
}

func FormatSubject(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func ParseSubject(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("subject %q is not a user id", sub)
	}
	if id == 0 {
		return 0, errors.New("subject is zero")
	}
	return uint(id), nil
}
