package auth

import (
	"net/http"
	"strings"

	"oversight/models"
)

// Authenticator resolves the caller of a request
type Authenticator interface {
	Authenticate(r *http.Request) (models.Identity, error)
}

// JWTAuthenticator reads a Bearer token from the Authorization header
type JWTAuthenticator struct {
	tokens *TokenManager
}

func NewJWTAuthenticator(tokens *TokenManager) *JWTAuthenticator {
	return &JWTAuthenticator{tokens: tokens}
}

func (a *JWTAuthenticator) Authenticate(r *http.Request) (models.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return models.Identity{}, ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return models.Identity{}, ErrInvalidToken
	}
	return a.tokens.Verify(strings.TrimSpace(token))
}

// FixedIdentityAuthenticator accepts every request as the same demo administrator
type FixedIdentityAuthenticator struct {
	identity models.Identity
}

// NewFixedIdentityAuthenticator returns a demo authenticator for userID and email
func NewFixedIdentityAuthenticator(userID, email string) *FixedIdentityAuthenticator {
	return &FixedIdentityAuthenticator{
		identity: models.Identity{
			UserID: userID,
			Email:  email,
			Role:   models.RoleAdmin,
			Region: "Central",
		},
	}
}

func (a *FixedIdentityAuthenticator) Authenticate(*http.Request) (models.Identity, error) {
	return a.identity, nil
}
