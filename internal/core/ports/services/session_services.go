package services

import (
	"context"

	"github.com/recipeshelf/backend/internal/core/domain"
)

// SessionSvcFacade defines the session token manager. Tokens are
// self-contained; the store is only consulted during throttled revalidation.
type SessionSvcFacade interface {
	// IssueSession mints a fresh token for a user that just authenticated.
	IssueSession(ctx context.Context, user *domain.User) (string, error)

	// Materialize turns a raw token into a usable session. It returns
	// (nil, "", nil) for anything that must not be treated as a session:
	// garbled or expired tokens, revoked tokens, and tokens whose owner no
	// longer exists. When throttled revalidation refreshed the embedded
	// role, the re-minted token is returned alongside the session so the
	// transport layer can hand it back to the client. A store failure is
	// returned as an error; callers deny.
	Materialize(ctx context.Context, tokenString string) (*domain.Session, string, error)
}

// AuthorizationSvcFacade defines the authorization engine consumed by every
// protected operation. It operates on materialized sessions; a nil session
// means "no session".
type AuthorizationSvcFacade interface {
	// RequireAuth fails with apperrors.ErrUnauthorized when there is no
	// session or its role is not a member of the enumerated role set.
	RequireAuth(session *domain.Session) (*domain.Session, error)

	// RequireRole fails with apperrors.ErrForbidden unless the session role
	// is a member of allowed. An empty allowed set always fails, even for
	// an admin.
	RequireRole(session *domain.Session, allowed ...domain.Role) (*domain.Session, error)

	// IsAdmin and HasRole are non-erroring probes; false on any missing or
	// invalid session.
	IsAdmin(session *domain.Session) bool
	HasRole(session *domain.Session, role domain.Role) bool

	// CanModifyContent reports whether the caller may mutate content stamped
	// with the given creator reference. Admins always may; the reserved
	// shared sentinels are admin-only; otherwise the reference must equal
	// the caller's user ID or email.
	CanModifyContent(session *domain.Session, contentCreatorID string) bool
}
