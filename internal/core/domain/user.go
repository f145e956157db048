package domain

import "time"

// Role is the closed set of permission levels a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	// RoleNone marks a missing or unrecognized role value. It is never a
	// member of the allowed set anywhere in the authorization engine.
	RoleNone Role = ""
)

// ParseRole maps a raw stored value onto the closed role set. Anything
// outside the set becomes RoleNone rather than surviving as a raw string.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser:
		return RoleUser
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleNone
	}
}

// Valid reports whether the role is a member of the enumerated set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a canonical user record in the domain.
type User struct {
	UserID          string     `json:"userID"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            Role       `json:"role"`
	Image           string     `json:"image,omitempty"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	AuditFields
}

// Identity is the minimal proof of who authenticated, returned by both
// login paths. Role is deliberately absent; it is resolved at session issue
// time from the backing store.
type Identity struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
