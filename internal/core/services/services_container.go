package services

import (
	portsrepo "github.com/recipeshelf/backend/internal/core/ports/repositories"
	portssvc "github.com/recipeshelf/backend/internal/core/ports/services"
	"github.com/recipeshelf/backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Password = NewPasswordService(cfg.BcryptCost, cfg.MaxConcurrentHashes)
	container.Credential = NewCredentialService(repos.UserRepo, repos.ProviderAccountRepo, container.Password, cfg.StoreTimeout)
	container.Link = NewLinkService(repos.UserRepo, repos.ProviderAccountRepo, cfg.StoreTimeout)
	container.Session = NewSessionService(cfg, repos.UserRepo)
	container.Authz = NewAuthorizationService()
	container.User = NewUserService(repos.UserRepo, cfg.StoreTimeout)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.CredentialAuthSvcFacade = (*credentialService)(nil)
	_ portssvc.ProviderLinkSvcFacade   = (*linkService)(nil)
	_ portssvc.SessionSvcFacade        = (*sessionService)(nil)
	_ portssvc.AuthorizationSvcFacade  = (*authzService)(nil)
	_ portssvc.UserSvcFacade           = (*userService)(nil)
	_ portssvc.PasswordSvcFacade       = (*passwordService)(nil)
)
