package auth

import (
	"context"

	"oversight/models"
)

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// IdentityFrom returns the identity attached by the authentication middleware
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(models.Identity)
	return identity, ok
}
