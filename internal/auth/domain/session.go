package domain

// Session is the set of identity claims trusted for a request. It is carried
// inside a signed token and never persisted on its own; whoever decodes it
// owns the copy.
type Session struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Color     string `json:"color"`
	Admin     bool   `json:"admin,omitempty"`
}
