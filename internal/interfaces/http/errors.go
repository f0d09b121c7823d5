package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

// handleError traduce errores de dominio a respuestas HTTP. Los errores no reconocidos se
// devuelven a Fiber: ErrorHandler los registra y responde "error interno".
func handleError(c *fiber.Ctx, err error) error {
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StockErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   "stock insuficiente",
			Available: stockErr.Available,
			Requested: stockErr.Requested,
		})
	}
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: valErr.Error(), Field: valErr.Field})
	}
	var msgErr *domain.MessageError
	message := func(def string) string {
		if errors.As(err, &msgErr) {
			return msgErr.Message
		}
		return def
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: message("recurso no encontrado")})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: message("el recurso ya existe")})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return err
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler respuesta de Fiber para errores no manejados por los handlers (404 de ruta, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "INTERNAL"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "ROUTE_NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusRequestEntityTooLarge:
				code = "BODY_TOO_LARGE"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("error no manejado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func invalidQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
}
