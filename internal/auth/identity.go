package auth

import "context"

// Identity is the authenticated caller. The zero value means anonymous.
type Identity struct {
	UserID string
	Email  string
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

type contextKey string

const identityKey contextKey = "identity"

// WithIdentity sets the caller into context (called by middleware)
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the caller, anonymous when none was set.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
