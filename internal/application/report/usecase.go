package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

// UseCase genera los reportes semanales y quincenales.
type UseCase struct {
	medRepo   repository.MedicationRepository
	movRepo   repository.MovementRepository
	renderers map[string]Renderer
	clock     inventory.Clock
}

// NewUseCase construye el caso de uso. renderers indexa por formato (excel, pdf).
func NewUseCase(medRepo repository.MedicationRepository, movRepo repository.MovementRepository, renderers map[string]Renderer, clock inventory.Clock) *UseCase {
	return &UseCase{medRepo: medRepo, movRepo: movRepo, renderers: renderers, clock: clock}
}

// Build valida la petición y agrega el período sin renderizar.
func (uc *UseCase) Build(ctx context.Context, in dto.ReportRequest) (*Report, error) {
	if strings.TrimSpace(in.StartDate) == "" {
		return nil, domain.NewValidationError("fecha_inicio", "es requerida")
	}
	start, err := inventory.ParseDate("fecha_inicio", in.StartDate)
	if err != nil {
		return nil, err
	}
	period := strings.ToLower(strings.TrimSpace(in.Period))
	if period == "" {
		period = PeriodWeekly
	}
	if _, ok := PeriodDays(period); !ok {
		return nil, domain.NewValidationError("periodo", "debe ser semanal o quincenal")
	}

	meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{})
	if err != nil {
		return nil, fmt.Errorf("reporte: medicamentos: %w", err)
	}
	movements, err := uc.movRepo.List(ctx, repository.MovementFilter{From: &start})
	if err != nil {
		return nil, fmt.Errorf("reporte: movimientos: %w", err)
	}
	removed, err := uc.removedWithMovements(ctx, meds, movements)
	if err != nil {
		return nil, err
	}
	return Build(period, start, append(meds, removed...), movements, uc.clock.Now())
}

// removedWithMovements carga los medicamentos dados de baja que aparecen en movements.
func (uc *UseCase) removedWithMovements(ctx context.Context, active []*entity.Medication, movements []*entity.Movement) ([]*entity.Medication, error) {
	known := make(map[string]bool, len(active))
	for _, m := range active {
		known[m.ID] = true
	}
	var ids []string
	for _, mov := range movements {
		if !known[mov.MedicationID] {
			known[mov.MedicationID] = true
			ids = append(ids, mov.MedicationID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{IncludeDeleted: true, IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("reporte: medicamentos dados de baja: %w", err)
	}
	removed := meds[:0]
	for _, m := range meds {
		if !m.Active() {
			removed = append(removed, m)
		}
	}
	return removed, nil
}

// Generate construye y renderiza el reporte en el formato pedido (excel por defecto).
func (uc *UseCase) Generate(ctx context.Context, in dto.ReportRequest) (*File, error) {
	format := strings.ToLower(strings.TrimSpace(in.Format))
	switch format {
	case "", "xlsx":
		format = FormatExcel
	}
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, domain.NewValidationError("formato", "debe ser excel o pdf")
	}

	r, err := uc.Build(ctx, in)
	if err != nil {
		return nil, err
	}
	content, err := renderer.Render(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("reporte: render %s: %w", format, err)
	}
	return &File{
		Name:        FileName(r, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// FileName Reporte_Semanal_YYYYMMDD.ext o Reporte_Quincenal_YYYYMMDD.ext.
func FileName(r *Report, ext string) string {
	kind := "Semanal"
	if r.Period == PeriodBiweekly {
		kind = "Quincenal"
	}
	return fmt.Sprintf("Reporte_%s_%s.%s", kind, r.Start.Format("20060102"), ext)
}
