package auth

import (
	"context"

	"github.com/dmitrijs2005/clubevent/internal/server/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is what the auth gate attaches to a request: the freshly loaded
// principal (credential stripped) and the login type it was resolved by.
type Identity struct {
	Principal *models.Principal
	LoginType models.Variant
}

// WithIdentity returns a child context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity attached by the auth gate, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	if !ok || id == nil || id.Principal == nil {
		return nil, false
	}
	return id, true
}

// HasRole reports whether the identity's principal holds one of roles.
func (id *Identity) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if id.Principal.Role == r {
			return true
		}
	}
	return false
}
