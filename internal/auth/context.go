package auth

import (
	"context"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

// Identity is the request-scoped result of the guard: the resolved user
// and the session it came from. Safe-auth routes receive the zero value
// when resolution fails; permission checks then fail closed.
type Identity struct {
	User    *rbac.User
	Session *Session
}

// Authenticated reports whether a user was resolved.
func (id Identity) Authenticated() bool {
	return id.User != nil
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity, zero value when absent.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityContextKey{}).(Identity)
	return id
}

// UserFromContext extracts the resolved user, nil when anonymous. This
// is the identity function handed to rbac.Middleware.
func UserFromContext(ctx context.Context) *rbac.User {
	return IdentityFromContext(ctx).User
}
