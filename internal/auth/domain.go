// Package auth gates the API behind role passwords and opaque bearer tokens.
package auth

import "time"

// Roles known to the application.
const (
	RoleAdmin    = "admin"
	RoleMechanic = "mechanic"
)

// Token represents an issued bearer token.
type Token struct {
	Value     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidRole reports whether the role is one the application issues tokens for.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMechanic
}
