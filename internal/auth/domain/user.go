package domain

import "time"

type User struct {
	ID             string
	Email          string // unique, used for login
	FirstName      string
	LastName       string
	Color          string // display colour for avatars/initials
	Admin          bool
	PasswordDigest string // hex-encoded SHA-512
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session returns the claim set embedded in a signed session token for
// this user.
func (u User) Session() Session {
	return Session{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Color:     u.Color,
		Admin:     u.Admin,
	}
}
