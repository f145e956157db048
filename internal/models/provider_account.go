package models

// ProviderAccount is the persistence shape of a provider-account row.
// PasswordHash is populated only for the credentials provider.
type ProviderAccount struct {
	AccountID         string  `db:"account_id"`
	UserID            string  `db:"user_id"`
	Provider          string  `db:"provider"`
	ProviderAccountID string  `db:"provider_account_id"`
	PasswordHash      *string `db:"password_hash"`
	AuditFields
}
