// ABOUTME: Authenticated identity propagated through request handlers
// ABOUTME: Provides WithIdentity/FromContext for carrying identity via context

package auth

import (
	"context"
)

// Identity holds the authenticated user information extracted from a request.
// Populated by the session middleware and retrieved from context in handlers.
type Identity struct {
	UserID        string
	Email         string
	Authenticated bool
}

// identityKey is the key type for storing Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the Identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the Identity from the context, returning nil if not
// present.
func FromContext(ctx context.Context) *Identity {
	val := ctx.Value(identityKey{})
	if val == nil {
		return nil
	}
	id, ok := val.(*Identity)
	if !ok {
		return nil
	}
	return id
}

// MustFromContext retrieves the Identity from the context, panicking if not
// present. Only for handlers mounted behind RequireSession.
func MustFromContext(ctx context.Context) *Identity {
	id := FromContext(ctx)
	if id == nil {
		panic("auth: Identity not found in context")
	}
	return id
}
