// Package tokeninfo reads the claims of a bearer token without verifying it.
// The client never holds the signing key; claims are for display only.
package tokeninfo

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaque is returned for tokens that are not JWTs.
var ErrOpaque = errors.New("token is not a JWT")

// Info holds the displayable claims of a token.
type Info struct {
	Subject   string
	IssuedAt  time.Time // zero if absent
	ExpiresAt time.Time // zero if absent
}

// Expired reports whether the token has an expiry before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Parse decodes the registered claims of raw.
func Parse(raw string) (Info, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Info{}, ErrOpaque
	}

	info := Info{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
