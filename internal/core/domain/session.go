package domain

import "time"

// Session is the materialized, usable form of a session token. A token that
// fails verification, is revoked, or whose owner no longer exists never
// materializes into one of these; callers see nil instead.
type Session struct {
	UserID         string    `json:"userID"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	LastVerifiedAt time.Time `json:"lastVerifiedAt"`
}
