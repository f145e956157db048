package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/recipeshelf/backend/internal/core/domain"
)

// SessionClaims is the payload carried by a session token: the registered
// claims plus the identity/role snapshot and the moment that snapshot was
// last verified against the backing store.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email          string `json:"email,omitempty"`
	Name           string `json:"name,omitempty"`
	Role           string `json:"role,omitempty"`
	LastVerifiedAt int64  `json:"lvt,omitempty"`
}

// NewSessionClaims builds the claims for a freshly issued session.
// lastVerifiedAt starts at issuance time: issuing already consulted the store.
func NewSessionClaims(user *domain.User, issuer string, expiry time.Duration, now time.Time) *SessionClaims {
	return &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.UserID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Email:          user.Email,
		Name:           user.Name,
		Role:           string(user.Role),
		LastVerifiedAt: now.Unix(),
	}
}

// GenerateSessionToken signs the claims into a compact token string.
func GenerateSessionToken(claims *SessionClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken parses a session token string and validates its
// signature and standard claims. It returns the claims if the token is
// valid, or an error otherwise.
func ParseSessionToken(tokenString string, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
