package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated company attached to a request by the bearer middleware
type Identity struct {
	CompanyID uuid.UUID
	Email     string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by WithIdentity
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
