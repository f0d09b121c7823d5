package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

// RequestLogger registra método, ruta, estado, latencia y operador de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// El ErrorHandler fija el estado final; se invoca aquí para registrarlo.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		evt := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = log.Error()
		case status >= fiber.StatusBadRequest:
			evt = log.Warn()
		}
		evt.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("operator", OperatorName(c)).
			Msg("request")
		return nil
	}
}
