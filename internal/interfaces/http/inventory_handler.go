package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
)

// InventoryHandler consultas de inventario, estadísticas y demanda.
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Inventory godoc
// @Summary      Inventario actual
// @Description  Stock, estado (AGOTADO, CRITICO, BAJO, OK), último ingreso y egresos del mes.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        bajo_minimo  query  bool  false  "solo medicamentos en o bajo el stock mínimo"
// @Success      200  {array}   dto.InventoryItemDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventario [get]
func (h *InventoryHandler) Inventory(c *fiber.Ctx) error {
	list, err := h.uc.Inventory(c.Context(), c.QueryBool("bajo_minimo", false))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(list)
}

// Stats godoc
// @Summary      Estadísticas del carro
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsDTO
// @Router       /api/estadisticas [get]
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stats)
}

// TopDemand godoc
// @Summary      Medicamentos más dispensados
// @Description  Ranking por cantidad dispensada. Ventana: desde/hasta, o los últimos dias (30 por defecto).
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        dias   query  int     false  "días hacia atrás desde hoy"
// @Param        desde  query  string  false  "YYYY-MM-DD"
// @Param        hasta  query  string  false  "YYYY-MM-DD"
// @Param        limit  query  int     false  "tamaño del ranking (10 por defecto)"
// @Success      200  {array}   dto.DemandDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analisis/demanda [get]
func (h *InventoryHandler) TopDemand(c *fiber.Ctx) error {
	var in dto.DemandRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	list, err := h.uc.TopDemand(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(list)
}
