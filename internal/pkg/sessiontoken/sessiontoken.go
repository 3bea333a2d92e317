package sessiontoken

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrMalformed = errors.New("malformed session token")

// Claims are the parts of the API-issued session token the client cares
// about. The token is decoded without signature verification: the API is
// the authority, this side only needs expiry and subject for display.
type Claims struct {
	AccountID int64 `json:"id"`
	jwtlib.RegisteredClaims
}

// Decode extracts the claims from a session token.
func Decode(tokenStr string) (*Claims, error) {
	parser := jwtlib.NewParser()
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrMalformed
	}
	return claims, nil
}

// Expired reports whether the token's expiry has passed. Tokens without an
// expiry never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}
