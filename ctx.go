package tableside

import "context"

var tokenCtxKey = &contextKey{"token"}
var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithToken sets a bearer credential in the given context. The API client
// prefers a context credential over the session's when attaching the
// Authorization header, which lets one-off calls (registration follow-ups,
// tests) run under a specific token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext finds a bearer credential in the context.
func TokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenCtxKey).(string)
	return raw, ok
}

// WithIdentity sets the verified Identity in the given context.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// IdentityFromContext finds the verified Identity in the context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	raw, ok := ctx.Value(identityCtxKey).(*Identity)
	return raw, ok
}
