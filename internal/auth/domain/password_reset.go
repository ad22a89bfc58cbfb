package domain

import "time"

// PasswordReset is a persisted, time-boxed, single-use capability allowing
// one password change. The raw reset code never touches the database; only
// its SHA-256 fingerprint is stored.
//
// Lifecycle: pending until ConsumedAt is set by the one successful consume,
// or until ExpiresAt passes. Expiry is a read-time judgement, not a stored
// state.
type PasswordReset struct {
	ID         string
	UserID     string
	CodeHash   string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Consumed reports whether the reset has been used.
func (p PasswordReset) Consumed() bool { return p.ConsumedAt != nil }

// Expired reports whether the reset is past its expiry at the given instant.
func (p PasswordReset) Expired(now time.Time) bool { return now.After(p.ExpiresAt) }
