package apperrors

import (
	"errors"
	"fmt"
)

// Classified authentication outcomes. These are expected control-flow
// results of the credential authenticator, not failures of the system, and
// callers are expected to match on them.

// ErrEmailExistsWithCredentials rejects a signup for an email that already
// has a password registered.
var ErrEmailExistsWithCredentials = errors.New("email already registered with a password; sign in or reset your password")

// ErrNoPasswordSet rejects a password login or signup check against an
// account that has no usable local credential.
var ErrNoPasswordSet = errors.New("no password set for this account; use social login or reset your password")

// ErrInvalidPassword rejects a password login whose comparison failed. It is
// surfaced to clients as a generic login failure.
var ErrInvalidPassword = errors.New("invalid password")

// EmailExistsWithProviderError rejects a signup or password login for an
// email that is already linked through an external identity provider. It
// carries the provider name so the client can prompt "sign in with X".
type EmailExistsWithProviderError struct {
	Provider string
}

func (e *EmailExistsWithProviderError) Error() string {
	return fmt.Sprintf("email already registered via %s; sign in with %s instead", e.Provider, e.Provider)
}
