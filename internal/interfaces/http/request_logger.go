package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/vendor-admin-api/pkg/ids"
	"github.com/jhoicas/vendor-admin-api/pkg/logger"
)

// HeaderRequestID cabecera de correlación; se respeta la del cliente o se genera un ULID.
const HeaderRequestID = "X-Request-ID"

// RequestLogger asigna un request id, deja un sublogger en c.UserContext() y registra
// una línea por petición. Los errores de la cadena se traducen aquí con onError para
// que la línea de log lleve el status final.
func RequestLogger(log *logger.Logger, onError fiber.ErrorHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = ids.New()
		}
		c.Set(HeaderRequestID, reqID)

		ctx, zl := log.WithRequestID(c.UserContext(), reqID)
		c.SetUserContext(ctx)

		if err := c.Next(); err != nil {
			if herr := onError(c, err); herr != nil {
				return herr
			}
		}

		status := c.Response().StatusCode()
		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = zl.Error()
		case status >= fiber.StatusBadRequest:
			ev = zl.Warn()
		default:
			ev = zl.Info()
		}
		if identity, ok := GetIdentity(c); ok {
			ev = ev.Str("admin_id", identity.AdminID.String())
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
		return nil
	}
}
