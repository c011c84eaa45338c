package users

import "time"

// User represents a user account for administration. The engine-facing
// shape (with roles and matrices) lives in rbac; this one carries what
// the admin screens need.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Active        bool      `json:"active"`
	EmailVerified bool      `json:"email_verified"`
	RoleIDs       []int64   `json:"role_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
