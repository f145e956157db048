package domain

// Provider identifiers. ProviderCredentials is the local password method;
// everything else is an externally verified identity provider.
const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderGitHub      = "github"
)

// ProviderAccount links a canonical user to one authentication method.
// A user holds at most one account per provider, and one external identity
// maps to at most one user; both are enforced by store-level uniqueness.
type ProviderAccount struct {
	AccountID         string  `json:"accountID"`
	UserID            string  `json:"userID"`
	Provider          string  `json:"provider"`
	ProviderAccountID string  `json:"providerAccountID"`
	PasswordHash      *string `json:"-"`
	AuditFields
}

// HasPassword reports whether the account carries a usable local credential.
func (a ProviderAccount) HasPassword() bool {
	return a.Provider == ProviderCredentials && a.PasswordHash != nil && *a.PasswordHash != ""
}

// ExternalProfile carries the already-verified profile an external identity
// provider hands us alongside the account identifier.
type ExternalProfile struct {
	Name          string
	Email         string
	Image         string
	EmailVerified bool
}
