// Package utils provides helpers for token issuance, password hashing and
// one-time-code generation.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the decoded content of a verified auth token: who the request
// is for and what they are allowed to do.
type Identity struct {
	UserID   uint64
	Username string
	Role     string
}

// ErrInvalidToken covers every verification failure: bad signature, wrong
// signing method, malformed claims or expiry. Callers must not be able to
// tell which one occurred.
var ErrInvalidToken = errors.New("invalid token")

// IssueToken builds and signs an HS256 JWT for a user. All token classes use
// the same configured TTL. The claims are subject (sub), display name (name),
// role, issued-at (iat) and expiration (exp).
func IssueToken(secret string, id Identity, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  id.UserID,
		"name": id.Username,
		"role": id.Role,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyToken validates the signature and expiry of a token and returns the
// embedded identity. Every failure mode is collapsed into ErrInvalidToken.
func VerifyToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	return Identity{UserID: uint64(sub), Username: name, Role: role}, nil
}
