package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/report"
)

// ReportHandler descarga de reportes Excel y PDF.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Generate godoc
// @Summary      Descargar reporte
// @Description  Reporte semanal (7 días) o quincenal (15 días) desde fecha_inicio.
// @Tags         reportes
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        fecha_inicio  query  string  true   "YYYY-MM-DD"
// @Param        periodo       query  string  false  "semanal | quincenal"
// @Param        formato       query  string  false  "excel | pdf"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes [get]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	return h.send(c, in)
}

// Fixed atiende las rutas /api/reportes/{periodo}-{formato}; solo fecha_inicio viene en la query.
func (h *ReportHandler) Fixed(period, format string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.send(c, dto.ReportRequest{
			StartDate: c.Query("fecha_inicio"),
			Period:    period,
			Format:    format,
		})
	}
}

func (h *ReportHandler) send(c *fiber.Ctx, in dto.ReportRequest) error {
	file, err := h.uc.Generate(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Content)
}
