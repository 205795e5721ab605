package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/vendor-admin-api/internal/application/auth"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/internal/domain/entity"
	"github.com/jhoicas/vendor-admin-api/pkg/jwt"
)

const bearerPrefix = "Bearer "

var (
	errMissingToken   = domain.NewAuthError("missing authorization token")
	errInvalidToken   = domain.NewAuthError("invalid token")
	errInvalidAdminID = domain.NewAuthError("invalid admin id in token")
	errForbiddenRole  = domain.NewForbiddenError("insufficient role")
)

// TokenVerifier puerto del servicio de tokens que necesita el middleware.
type TokenVerifier interface {
	Verify(token string, now time.Time) (*jwt.Claims, error)
}

// AuthMiddleware valida el Bearer Token y deja la identidad verificada en el contexto
// de la petición (c.UserContext()). Solo se monta sobre el grupo protegido.
func AuthMiddleware(tokens TokenVerifier, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return errMissingToken
		}
		claims, err := tokens.Verify(header[len(bearerPrefix):], now())
		if err != nil {
			return errInvalidToken
		}
		adminID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return errInvalidAdminID
		}
		identity := entity.Identity{AdminID: adminID, Role: claims.Role}
		c.SetUserContext(auth.WithIdentity(c.UserContext(), identity))
		return c.Next()
	}
}

// RequireRole exige que la identidad tenga uno de los roles. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := GetIdentity(c)
		if !ok {
			return errMissingToken
		}
		for _, r := range roles {
			if identity.Role == r {
				return c.Next()
			}
		}
		return errForbiddenRole
	}
}

// GetIdentity devuelve la identidad de la petición (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	return auth.IdentityFromContext(c.UserContext())
}
