package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/inventory"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

const (
	defaultDemandDays  = 30
	maxDemandDays      = 365
	defaultDemandLimit = 10
	maxDemandLimit     = 50
)

// InventoryUseCase vistas de lectura: estado del carro, estadísticas y ranking de demanda.
type InventoryUseCase struct {
	medRepo repository.MedicationRepository
	movRepo repository.MovementRepository
	clock   Clock
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(medRepo repository.MedicationRepository, movRepo repository.MovementRepository, clock Clock) *InventoryUseCase {
	return &InventoryUseCase{medRepo: medRepo, movRepo: movRepo, clock: clock}
}

// Inventory lista los medicamentos activos con su estado y lo dispensado en el mes en curso.
func (uc *InventoryUseCase) Inventory(ctx context.Context, belowThreshold bool) ([]dto.InventoryItemDTO, error) {
	today := entity.Day(uc.clock.Now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{BelowThreshold: belowThreshold})
	if err != nil {
		return nil, fmt.Errorf("inventario: medicamentos: %w", err)
	}
	totals, err := uc.movRepo.SumDispensed(ctx, monthStart, monthEnd, 0)
	if err != nil {
		return nil, fmt.Errorf("inventario: egresos del mes: %w", err)
	}
	dispensed := make(map[string]int, len(totals))
	for _, t := range totals {
		dispensed[t.MedicationID] = t.Total
	}

	out := make([]dto.InventoryItemDTO, 0, len(meds))
	for _, m := range meds {
		out = append(out, dto.InventoryItemDTO{
			ID:               m.ID,
			Name:             m.Name,
			Unit:             m.Unit,
			Location:         m.Location,
			Stock:            m.Quantity,
			MinStock:         m.MinStock,
			Status:           inventory.StockStatus(m.Quantity, m.MinStock),
			LastRestock:      toRestockDTO(m.LastRestock),
			MonthlyDispensed: dispensed[m.ID],
		})
	}
	return out, nil
}

// Stats cuenta medicamentos activos, alertas de stock y movimientos del día.
func (uc *InventoryUseCase) Stats(ctx context.Context) (*dto.StatsDTO, error) {
	today := entity.Day(uc.clock.Now())

	type medsResult struct {
		meds []*entity.Medication
		err  error
	}
	type countResult struct {
		n   int
		err error
	}

	medsCh := make(chan medsResult, 1)
	countCh := make(chan countResult, 1)

	go func() {
		meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{})
		medsCh <- medsResult{meds, err}
	}()
	go func() {
		n, err := uc.movRepo.Count(ctx, repository.MovementFilter{From: &today, To: &today})
		countCh <- countResult{n, err}
	}()

	meds := <-medsCh
	count := <-countCh

	if meds.err != nil {
		return nil, fmt.Errorf("estadisticas: medicamentos: %w", meds.err)
	}
	if count.err != nil {
		return nil, fmt.Errorf("estadisticas: movimientos de hoy: %w", count.err)
	}

	alerts := 0
	for _, m := range meds.meds {
		if inventory.IsAlert(m.Quantity, m.MinStock) {
			alerts++
		}
	}
	return &dto.StatsDTO{
		TotalMedications: len(meds.meds),
		LowStockAlerts:   alerts,
		MovementsToday:   count.n,
	}, nil
}

// TopDemand ranking de los medicamentos más dispensados.
// Con desde/hasta usa ese rango; si no, los últimos `dias` días incluyendo hoy.
func (uc *InventoryUseCase) TopDemand(ctx context.Context, in dto.DemandRequest) ([]dto.DemandDTO, error) {
	from, to, days, err := uc.demandWindow(in)
	if err != nil {
		return nil, err
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultDemandLimit
	}
	if limit > maxDemandLimit {
		limit = maxDemandLimit
	}

	totals, err := uc.movRepo.SumDispensed(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("demanda: %w", err)
	}
	if len(totals) == 0 {
		return []dto.DemandDTO{}, nil
	}

	ids := make([]string, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.MedicationID)
	}
	meds, err := uc.medRepo.List(ctx, repository.MedicationFilter{IncludeDeleted: true, IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("demanda: nombres: %w", err)
	}
	names := namesByID(meds)

	out := make([]dto.DemandDTO, 0, len(totals))
	for _, t := range totals {
		name, ok := names[t.MedicationID]
		if !ok {
			name = UnknownMedication
		}
		out = append(out, dto.DemandDTO{
			MedicationID:   t.MedicationID,
			Name:           name,
			TotalDispensed: t.Total,
			Frequency:      t.Frequency,
			DailyAverage:   inventory.DailyAverage(t.Total, days),
		})
	}
	return out, nil
}

func (uc *InventoryUseCase) demandWindow(in dto.DemandRequest) (from, to time.Time, days int, err error) {
	if in.From != "" || in.To != "" {
		if in.From == "" || in.To == "" {
			return from, to, 0, domain.NewValidationError("desde", "desde y hasta deben indicarse juntos")
		}
		if from, err = ParseDate("desde", in.From); err != nil {
			return from, to, 0, err
		}
		if to, err = ParseDate("hasta", in.To); err != nil {
			return from, to, 0, err
		}
		if to.Before(from) {
			return from, to, 0, domain.NewValidationError("hasta", "debe ser posterior a desde")
		}
		days = int(to.Sub(from).Hours()/24) + 1
		return from, to, days, nil
	}

	days = in.Days
	if days == 0 {
		days = defaultDemandDays
	}
	if days < 1 || days > maxDemandDays {
		return from, to, 0, domain.NewValidationError("dias", fmt.Sprintf("debe estar entre 1 y %d", maxDemandDays))
	}
	to = entity.Day(uc.clock.Now())
	from = to.AddDate(0, 0, -(days - 1))
	return from, to, days, nil
}
