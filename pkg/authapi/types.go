// Package authapi holds the wire types of the auth service HTTP API, shared
// between the handlers and any Go client of the service.
package authapi

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g. "invalid_credentials").
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error.
	ErrorDescription string `json:"error_description"`
}

// SessionResponse is returned from successful logins and session reads.
type SessionResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Color     string `json:"color"`
	Admin     bool   `json:"admin,omitempty"`

	// Token echoes the signed session token for non-cookie clients. Only
	// present on login; session reads return claims only.
	Token string `json:"token,omitempty"`
}

// ResetLookupResponse reports whether a reset code is still usable.
type ResetLookupResponse struct {
	Valid     bool   `json:"valid"`
	ExpiresAt string `json:"expires_at,omitempty"` // RFC 3339
}

// HealthResponse is returned from the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
