package models

import "time"

// User is the persistence shape of a user row. The role is kept as the raw
// stored string here; mapping onto the closed domain role set happens at the
// repository boundary.
type User struct {
	UserID          string     `db:"user_id"`
	Email           string     `db:"email"`
	Name            string     `db:"name"`
	Role            string     `db:"role"`
	Image           *string    `db:"image"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
	AuditFields
}
