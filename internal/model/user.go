package model

import "time"

// Role controls access to user administration and record mutation.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleViewer  Role = "viewer"
	RoleAnalyst Role = "analyst"
)

// ValidRole reports whether r is one of the recognized roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleViewer, RoleAnalyst:
		return true
	}
	return false
}

// User is an operator account. PasswordHash is a bcrypt digest and is never
// included in listings.
type User struct {
	Username      string     `json:"username"`
	PasswordHash  []byte     `json:"-"`
	Role          Role       `json:"role"`
	Email         string     `json:"email,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	CreatedBy     string     `json:"created_by,omitempty"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	DeactivatedBy string     `json:"deactivated_by,omitempty"`
}

// AuditEntry is one immutable row of the mutation log.
type AuditEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}
