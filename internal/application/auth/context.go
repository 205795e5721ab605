package auth

import (
	"context"

	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
)

type identityKey struct{}

// WithIdentity devuelve un contexto hijo con la identidad verificada de la petición.
func WithIdentity(ctx context.Context, id entity.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext lee la identidad puesta por el middleware de autenticación.
func IdentityFromContext(ctx context.Context) (entity.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(entity.Identity)
	return id, ok
}
