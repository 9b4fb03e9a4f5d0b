// Package auth issues relay tickets and hashes room passphrases.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidTicket = errors.New("auth: invalid ticket")

// Claims identify an actor inside one room.
type Claims struct {
	Room  string `json:"room"`
	Actor string `json:"actor"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueTicket signs a ticket that lets actor join room until ttl elapses.
func IssueTicket(secret, room, actor, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("auth: empty signing secret")
	}
	now := time.Now()
	claims := Claims{
		Room:  room,
		Actor: actor,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseTicket verifies signature and expiry. Only HS256 is accepted.
func ParseTicket(secret, token string) (*Claims, error) {
	return parseTicket(secret, token)
}

// ParseIdentity verifies the signature of a ticket that may have expired.
// It proves who an actor was, not that they may connect now.
func ParseIdentity(secret, token string) (*Claims, error) {
	return parseTicket(secret, token, jwt.WithoutClaimsValidation())
}

func parseTicket(secret, token string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	if !parsed.Valid || claims.Room == "" || claims.Actor == "" {
		return nil, ErrInvalidTicket
	}
	return claims, nil
}
