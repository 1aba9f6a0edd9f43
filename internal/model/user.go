// Package model defines domain entities for the application.
package model

import (
	"slices"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleAgent reports and manages found items.
	RoleAgent Role = "agent"
	// RolePassenger searches for lost items.
	RolePassenger Role = "passenger"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleAgent, RolePassenger}

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	return slices.Contains(ValidRoles, r)
}

// In reports whether the role is part of the given set.
func (r Role) In(roles []Role) bool {
	return slices.Contains(roles, r)
}

// ParseRole converts a string into a Role. Empty input yields RolePassenger.
func ParseRole(s string) (Role, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RolePassenger, true
	}
	r := Role(s)
	return r, r.IsValid()
}

// User is an account that can authenticate against the API.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never serialize
	Role         Role      `json:"role"`
	RefreshToken string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an email address.
// Emails are unique case-insensitively, so every lookup goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity is the verified caller attached to a request context.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}
