package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session TTLs by deployment mode. Development tokens are long-lived
// so local logins survive restarts; production tokens last a day.
const (
	DefaultDevSessionTTL  = 365 * 24 * time.Hour
	DefaultProdSessionTTL = 24 * time.Hour
)

// SessionClaims are the identity claims embedded in a session token. The
// field set is fixed: every signed token decodes to exactly one complete
// claim set, with admin absent for non-admin users.
type SessionClaims struct {
	jwt.RegisteredClaims

	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Color     string `json:"color"`
	Admin     bool   `json:"admin,omitempty"`
}

// NewSessionClaims builds claims for the given subject with an expiry of
// now+ttl.
func NewSessionClaims(
	subject, email, firstName, lastName, color string,
	admin bool,
	ttl time.Duration,
	issuer string,
	now time.Time,
) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Color:     color,
		Admin:     admin,
	}
}
