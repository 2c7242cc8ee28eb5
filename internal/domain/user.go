package domain

import "time"

// User is the domain model for every account, regardless of role.
type User struct {
	ID             string
	FullName       string
	Email          string
	IdentityNumber string
	PasswordHash   string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Sanitized returns a copy safe for responses, with the password hash cleared.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
