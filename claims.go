package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload carried by a signed session token: the
// subject's public fields plus the registered iat/exp claims. The credential
// hash never travels in a token.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID          string           `json:"uid,omitempty"`
	Username     string           `json:"username,omitempty"`
	Email        string           `json:"email,omitempty"`
	Confirmed    bool             `json:"confirmed,omitempty"`
	RegisteredAt *jwt.NumericDate `json:"registered_at,omitempty"`
}

// UserID returns the subject's account ID
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Identity adapts the claims back into an Identity for the whoAmI read path.
func (c *SessionClaims) Identity() Identity {
	return claimsIdentity{claims: c}
}

type claimsIdentity struct {
	claims *SessionClaims
}

func (i claimsIdentity) ID() string       { return i.claims.UserID() }
func (i claimsIdentity) Username() string { return i.claims.Username }
func (i claimsIdentity) Email() string    { return i.claims.Email }

var _ Identity = claimsIdentity{}
