package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendor-admin-api/pkg/metrics"
)

// MetricsMiddleware mide peticiones en curso, totales y latencia por ruta registrada
// (plantilla, no path concreto, para acotar la cardinalidad).
func MetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.RequestStarted()
		defer m.RequestFinished()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		m.ObserveRequest(c.Method(), routePath(c), status, time.Since(start))
		return err
	}
}

func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
