package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
	"github.com/jhoicas/vendor-admin-api/internal/domain"
	"github.com/jhoicas/vendor-admin-api/pkg/logger"
)

const internalErrorMessage = "an internal server error occurred"

// ErrorHandler traductor único error → status → cuerpo {"code","message"}.
// Los handlers devuelven el error sin manejarlo. Los errores internos se registran completos
// y el cliente solo recibe un mensaje genérico.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := translateError(err)
		if status >= fiber.StatusInternalServerError {
			log.FromContext(c.UserContext()).Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func translateError(err error) (int, dto.ErrorResponse) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, dto.ErrorResponse{Code: "INTERNAL", Message: internalErrorMessage}
		}
		return fe.Code, dto.ErrorResponse{Code: statusCode(fe.Code), Message: fe.Message}
	}

	msg := domain.PublicMessage(err)
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: msg}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: msg}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: msg}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: msg}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: internalErrorMessage}
	}
}

// statusCode "Method Not Allowed" → "METHOD_NOT_ALLOWED".
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
