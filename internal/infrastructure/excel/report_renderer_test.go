package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/report"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/excel"
)

func day(s string) time.Time {
	t, _ := time.Parse(entity.DateLayout, s)
	return t
}

func TestReportRenderer_Grid(t *testing.T) {
	meds := []*entity.Medication{{ID: "a", Name: "Adrenalina", Order: 1, Quantity: 7}}
	movs := []*entity.Movement{
		{MedicationID: "a", Type: entity.MovementTypeOUT, Quantity: 3, Date: day("2024-03-05"), Shift: "T"},
	}
	rep, err := report.Build(report.PeriodWeekly, day("2024-03-04"), meds, movs, time.Now())
	require.NoError(t, err)

	out, err := excel.NewReportRenderer().Render(context.Background(), rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Reporte", "A1")
	require.NoError(t, err)
	assert.Equal(t, report.SheetTitle, title)

	period, _ := f.GetCellValue("Reporte", "A2")
	assert.Equal(t, "Semana del 04/03/2024 al 10/03/2024", period)

	// martes 05/03: columnas H (M), I (T), J (N)
	dayHeader, _ := f.GetCellValue("Reporte", "H4")
	assert.Equal(t, "Mar\n05/03", dayHeader)
	shiftT, _ := f.GetCellValue("Reporte", "I6")
	assert.Equal(t, "3", shiftT)

	// 7 días x 3 turnos desde E -> Z demanda, AA stock
	demandHeader, _ := f.GetCellValue("Reporte", "Z4")
	assert.Equal(t, "DEMANDA TOTAL", demandHeader)
	demand, _ := f.GetCellValue("Reporte", "Z6")
	assert.Equal(t, "3", demand)
	stock, _ := f.GetCellValue("Reporte", "AA6")
	assert.Equal(t, "7", stock)
	initial, _ := f.GetCellValue("Reporte", "D6")
	assert.Equal(t, "10", initial)

	name, _ := f.GetCellValue("Ranking", "B4")
	assert.Equal(t, "Adrenalina", name)
}

func TestReportRenderer_EmptyReport(t *testing.T) {
	rep, err := report.Build(report.PeriodBiweekly, day("2024-03-01"), nil, nil, time.Now())
	require.NoError(t, err)

	r := excel.NewReportRenderer()
	out, err := r.Render(context.Background(), rep)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", r.Extension())

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Reporte", "Ranking"}, f.GetSheetList())
}

func TestReportRenderer_ColumnasFueraDeRango(t *testing.T) {
	// 3 columnas por día: 6000 días superan el máximo de columnas de excelize
	rep := &report.Report{Title: "Fuera de rango", Days: make([]time.Time, 6000)}

	out, err := excel.NewReportRenderer().Render(context.Background(), rep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excel: Reporte")
	assert.Nil(t, out)
}
