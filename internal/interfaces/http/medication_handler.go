package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
)

// MedicationHandler maneja el catálogo de medicamentos del carro.
type MedicationHandler struct {
	uc *inventory.MedicationUseCase
}

// NewMedicationHandler construye el handler.
func NewMedicationHandler(uc *inventory.MedicationUseCase) *MedicationHandler {
	return &MedicationHandler{uc: uc}
}

// List godoc
// @Summary      Listar medicamentos
// @Description  Medicamentos activos en el orden del carro.
// @Tags         medicamentos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.MedicationResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/medicamentos [get]
func (h *MedicationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener medicamento
// @Tags         medicamentos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del medicamento"
// @Success      200  {object}  dto.MedicationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicamentos/{id} [get]
func (h *MedicationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar medicamento
// @Description  Lo agrega al final del carro. stock_inicial > 0 se registra como INGRESO.
// @Tags         medicamentos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMedicationRequest  true  "nombre, unidad, ubicacion, stock_minimo, stock_inicial"
// @Success      201   {object}  dto.MedicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medicamentos [post]
func (h *MedicationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMedicationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), OperatorName(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar medicamento
// @Description  Solo cambia los campos enviados. El stock se modifica con movimientos.
// @Tags         medicamentos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID del medicamento"
// @Param        body  body      dto.UpdateMedicationRequest  true  "campos a modificar"
// @Success      200   {object}  dto.MedicationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/medicamentos/{id} [put]
func (h *MedicationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMedicationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Retirar medicamento
// @Description  Baja lógica; el historial de movimientos se conserva.
// @Tags         medicamentos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del medicamento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicamentos/{id} [delete]
func (h *MedicationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Medicamento eliminado"})
}
