package blog

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the structured claims carried by a session token.
// The mint step embeds the full minimal profile the gate later exposes, so
// reconstruction never needs a database round-trip.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Name() string
	Picture() string
	Role() string
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID         string `json:"uid,omitempty"`
	UserEmail   string `json:"email,omitempty"`
	UserName    string `json:"name,omitempty"`
	UserPicture string `json:"picture,omitempty"`
	UserRole    string `json:"role,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the user's email address
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Name returns the user's display name
func (c *JWTClaims) Name() string {
	return c.UserName
}

// Picture returns the user's picture URL, if any
func (c *JWTClaims) Picture() string {
	return c.UserPicture
}

// Role returns the global role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issue time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
