package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Períodos soportados.
const (
	PeriodWeekly   = "semanal"
	PeriodBiweekly = "quincenal"
)

// Formatos de salida.
const (
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// RankingSize posiciones del ranking de demanda incluido en cada reporte.
const RankingSize = 10

// SheetTitle encabezado común de los documentos.
const SheetTitle = "REGISTRO DE MEDICAMENTOS DEL CARRO DE URGENCIAS"

// Report agregado de movimientos de un período. Se calcula en cada petición y no se persiste.
type Report struct {
	Title          string
	Period         string
	Start          time.Time
	End            time.Time
	Days           []time.Time
	GeneratedAt    time.Time
	Rows           []Row
	Ranking        []RankingEntry
	TotalDispensed int
	TotalRestocked int
}

// Row fila de un medicamento.
type Row struct {
	MedicationID string
	Name         string
	Unit         string
	Order        int
	LastRestock  *time.Time
	Expiry       *time.Time
	InitialStock int
	Restocked    int
	Daily        []DayCell // mismo índice que Report.Days
	TotalDemand  int
	FinalStock   int
	CurrentStock int
}

// DayCell salidas de un día. Las salidas sin turno suman en Total pero en ninguna columna de turno.
type DayCell struct {
	ByShift map[string]int
	Total   int
}

// RankingEntry posición del ranking de demanda del período.
type RankingEntry struct {
	Position     int
	MedicationID string
	Name         string
	Total        int
	DailyAverage decimal.Decimal
}

// PeriodDays días que cubre el período.
func PeriodDays(period string) (int, bool) {
	switch period {
	case PeriodWeekly:
		return 7, true
	case PeriodBiweekly:
		return 15, true
	}
	return 0, false
}

// Build agrega los movimientos con Date >= start por medicamento. Un medicamento dado de baja
// solo tiene fila si registra movimientos dentro del período.
// movements puede incluir fechas posteriores al período: se usan para reconstruir el stock inicial.
func Build(period string, start time.Time, meds []*entity.Medication, movements []*entity.Movement, generatedAt time.Time) (*Report, error) {
	n, ok := PeriodDays(period)
	if !ok {
		return nil, fmt.Errorf("período desconocido %q", period)
	}
	start = entity.Day(start)
	end := start.AddDate(0, 0, n-1)

	r := &Report{
		Title:       Title(period, start, end),
		Period:      period,
		Start:       start,
		End:         end,
		Days:        make([]time.Time, n),
		GeneratedAt: generatedAt,
	}
	for i := range r.Days {
		r.Days[i] = start.AddDate(0, 0, i)
	}

	byMed := make(map[string][]*entity.Movement, len(meds))
	for _, m := range movements {
		byMed[m.MedicationID] = append(byMed[m.MedicationID], m)
	}

	r.Rows = make([]Row, 0, len(meds))
	for _, med := range meds {
		if !med.Active() && !hasMovementIn(byMed[med.ID], start, end) {
			continue
		}
		row := Row{
			MedicationID: med.ID,
			Name:         med.Name,
			Unit:         med.Unit,
			Order:        med.Order,
			CurrentStock: med.Quantity,
			Daily:        make([]DayCell, n),
		}
		if med.LastRestock != nil {
			d := med.LastRestock.Date
			row.LastRestock = &d
			row.Expiry = med.LastRestock.ExpiryDate
		}
		for i := range row.Daily {
			row.Daily[i].ByShift = make(map[string]int, len(entity.Shifts))
		}

		since := 0
		for _, m := range byMed[med.ID] {
			if m.Date.Before(start) {
				continue
			}
			since += m.Delta()
			if m.Date.After(end) {
				continue
			}
			if m.Type == entity.MovementTypeIN {
				row.Restocked += m.Quantity
				continue
			}
			idx := int(m.Date.Sub(start).Hours() / 24)
			cell := &row.Daily[idx]
			cell.Total += m.Quantity
			if m.Shift != "" {
				cell.ByShift[m.Shift] += m.Quantity
			}
			row.TotalDemand += m.Quantity
		}
		row.InitialStock = med.Quantity - since
		row.FinalStock = row.InitialStock + row.Restocked - row.TotalDemand

		r.TotalDispensed += row.TotalDemand
		r.TotalRestocked += row.Restocked
		r.Rows = append(r.Rows, row)
	}

	sort.SliceStable(r.Rows, func(i, j int) bool {
		if r.Rows[i].TotalDemand != r.Rows[j].TotalDemand {
			return r.Rows[i].TotalDemand > r.Rows[j].TotalDemand
		}
		return r.Rows[i].Order < r.Rows[j].Order
	})

	for _, row := range r.Rows {
		if len(r.Ranking) == RankingSize || row.TotalDemand == 0 {
			break
		}
		r.Ranking = append(r.Ranking, RankingEntry{
			Position:     len(r.Ranking) + 1,
			MedicationID: row.MedicationID,
			Name:         row.Name,
			Total:        row.TotalDemand,
			DailyAverage: inventory.DailyAverage(row.TotalDemand, n),
		})
	}
	return r, nil
}

func hasMovementIn(movs []*entity.Movement, start, end time.Time) bool {
	for _, m := range movs {
		if !m.Date.Before(start) && !m.Date.After(end) {
			return true
		}
	}
	return false
}

// Title título legible del período, p. ej. "Semana del 04/03/2024 al 10/03/2024".
func Title(period string, start, end time.Time) string {
	prefix := "Semana"
	if period == PeriodBiweekly {
		prefix = "Quincena"
	}
	return fmt.Sprintf("%s del %s al %s", prefix, FormatDate(start), FormatDate(end))
}

// FormatDate dd/mm/yyyy.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

var weekdays = [...]string{"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"}

// WeekdayShort abreviatura del día de la semana en español.
func WeekdayShort(t time.Time) string {
	return weekdays[t.Weekday()]
}
