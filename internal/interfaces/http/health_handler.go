package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendor-admin-api/internal/application/dto"
)

// Pinger comprueba la conexión con la base de datos (*pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler liveness y readiness.
type HealthHandler struct {
	service string
	db      Pinger
}

// NewHealthHandler db puede ser nil (almacenamiento en memoria).
func NewHealthHandler(service string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Live godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok", Service: h.service})
}

// Ready godoc
// @Summary      Readiness (ping a la base de datos)
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable", Service: h.service})
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Service: h.service})
}
