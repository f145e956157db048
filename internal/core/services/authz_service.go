package services

import (
	"fmt"

	"github.com/recipeshelf/backend/internal/apperrors"
	"github.com/recipeshelf/backend/internal/core/domain"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
)

// authzService implements the authorization engine. All decisions are pure
// functions of the materialized session; the store has already been
// consulted by the session token manager.
type authzService struct{}

// NewAuthorizationService creates a new authorization engine.
func NewAuthorizationService() portssvc.AuthorizationSvcFacade {
	return &authzService{}
}

func (s *authzService) RequireAuth(session *domain.Session) (*domain.Session, error) {
	if session == nil {
		return nil, apperrors.ErrUnauthorized
	}
	// An unknown role value is "no valid role", not a lower tier and not a
	// crash.
	if !session.Role.Valid() {
		return nil, apperrors.ErrUnauthorized
	}
	return session, nil
}

func (s *authzService) RequireRole(session *domain.Session, allowed ...domain.Role) (*domain.Session, error) {
	sess, err := s.RequireAuth(session)
	if err != nil {
		return nil, err
	}
	for _, role := range allowed {
		if sess.Role == role {
			return sess, nil
		}
	}
	// Note an empty allowed set lands here for every session, admin
	// included; there is no role that satisfies "no role allowed".
	return nil, fmt.Errorf("%w: requires one of roles %v, current role is %q", apperrors.ErrForbidden, allowed, sess.Role)
}

func (s *authzService) IsAdmin(session *domain.Session) bool {
	return s.HasRole(session, domain.RoleAdmin)
}

func (s *authzService) HasRole(session *domain.Session, role domain.Role) bool {
	_, err := s.RequireRole(session, role)
	return err == nil
}

func (s *authzService) CanModifyContent(session *domain.Session, contentCreatorID string) bool {
	sess, err := s.RequireAuth(session)
	if err != nil {
		return false
	}
	if sess.Role == domain.RoleAdmin {
		return true
	}
	if contentCreatorID == "" || domain.SharedCreator(contentCreatorID) {
		return false
	}
	// Legacy content rows were stamped with either the creator's ID or
	// their email; both count as ownership.
	return contentCreatorID == sess.UserID || contentCreatorID == sess.Email
}
