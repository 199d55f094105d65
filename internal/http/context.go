package http

import (
	"context"

	"github.com/example/agenda-escolar/internal/application"
)

type contextKey string

const (
	identityContextKey contextKey = "identity"
	recordIDContextKey contextKey = "record_id"
)

// ContextWithIdentity returns a derived context containing the signed-in identity.
func ContextWithIdentity(ctx context.Context, identity application.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext extracts the signed-in identity from context if available.
func IdentityFromContext(ctx context.Context) (application.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(application.Identity)
	return identity, ok
}

// ContextWithRecordID injects the record identifier resolved from the request path.
func ContextWithRecordID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, recordIDContextKey, id)
}

// RecordIDFromContext extracts a record identifier previously associated with the context.
func RecordIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(recordIDContextKey).(string)
	return id, ok
}
