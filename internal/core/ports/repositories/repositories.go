package repositories

// RepositoryProvider bundles every repository the service layer needs.
// Construction happens once at boot; services receive the provider rather
// than reaching for any ambient store handle.
type RepositoryProvider struct {
	UserRepo            UserRepositoryFacade
	ProviderAccountRepo ProviderAccountRepositoryFacade
}
