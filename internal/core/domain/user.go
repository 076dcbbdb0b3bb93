package domain

import "time"

// MaxPasswordBytes is the longest password accepted. bcrypt ignores input
// beyond this length.
const MaxPasswordBytes = 72

// Role is the single authorization attribute carried by a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User models an account as persisted by the user store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser carries the fields the service supplies on insert. The store
// assigns ID and timestamps.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	Role         Role
}

// UserUpdate lists the mutable fields of a user. Nil fields are left untouched.
type UserUpdate struct {
	PasswordHash *string
}
