package model

import "time"

// Role values stored in users.role. Only the two below are ever issued.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the `users` table. PasswordHash is nil for accounts created
// through Google sign-in, which carry no local password. ResetCode and its
// expiry hold at most one pending password-reset code per user.
type User struct {
	ID                 uint64     `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	PasswordHash       *string    `json:"-"`
	Role               string     `json:"role"`
	ProfileImage       *string    `json:"profile_image,omitempty"`
	ResetCode          *string    `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
