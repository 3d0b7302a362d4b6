package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential domain.
// Passwords are stored as bcrypt hashes in Password field.
// Users are never deleted; Deactivate flips Active.
type User struct {
	ID           string
	TenantID     string
	Email        string
	Password     string
	Name         string
	BusinessName string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail is applied before every store and lookup so uniqueness
// within a tenant is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
