package auth

import "context"

type contextKey struct{}

// Identity is the resolved user attached to a request after the session
// gate has validated the cookie.
type Identity struct {
	UserID  int64
	Name    string
	Email   string
	Role    string
	IsAdmin bool
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

func UserID(ctx context.Context) int64 {
	id, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return id.UserID
}

func IsAdmin(ctx context.Context) bool {
	id, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return id.IsAdmin
}
