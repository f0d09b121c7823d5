package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

const healthTimeout = 3 * time.Second

// SystemHandler salud del servicio y datos de prueba.
type SystemHandler struct {
	service string
	driver  string
	store   repository.Pinger
	seed    *inventory.SeedUseCase
}

// NewSystemHandler construye el handler.
func NewSystemHandler(service, driver string, store repository.Pinger, seed *inventory.SeedUseCase) *SystemHandler {
	return &SystemHandler{service: service, driver: driver, store: store, seed: seed}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         sistema
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /api/health [get]
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	status := "connected"
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()
	if h.store == nil || h.store.Ping(ctx) != nil {
		status = "disconnected"
	}
	return c.JSON(dto.HealthResponse{
		Status:  "ok",
		Service: h.service,
		Store:   status,
		Driver:  h.driver,
	})
}

// SampleData godoc
// @Summary      Crear datos de prueba
// @Description  Solo en desarrollo. Carga la dotación estándar del carro y cinco ingresos.
// @Tags         sistema
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.SampleDataResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/test/data [post]
func (h *SystemHandler) SampleData(c *fiber.Ctx) error {
	out, err := h.seed.SampleData(c.Context(), OperatorName(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
