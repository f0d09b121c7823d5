package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
)

// MovementHandler historial de ingresos y salidas.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento
// @Description  INGRESO suma y SALIDA resta al stock. Una SALIDA mayor al stock se rechaza con 400.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterMovementRequest  true  "medicamento_id, tipo, cantidad, fecha, turno"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.StockErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Register(c.Context(), OperatorName(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        medicamento_id  query  string  false  "ID del medicamento"
// @Param        tipo            query  string  false  "INGRESO | SALIDA"
// @Param        desde           query  string  false  "YYYY-MM-DD"
// @Param        hasta           query  string  false  "YYYY-MM-DD"
// @Param        limit           query  int     false  "máximo de registros (100 por defecto)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	var in dto.MovementHistoryRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	list, err := h.uc.History(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(list)
}
