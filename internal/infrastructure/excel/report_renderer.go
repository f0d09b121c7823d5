// Package excel renderiza los reportes del carro como hojas de cálculo xlsx (excelize).
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/report"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

const (
	sheetReport  = "Reporte"
	sheetRanking = "Ranking"

	headerRow = 4
	firstDay  = 5 // columna E
)

// ContentTypeXLSX tipo MIME de los libros generados.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var _ report.Renderer = (*ReportRenderer)(nil)

// ReportRenderer genera el formato de registro en papel: una fila por medicamento y
// tres columnas (M, T, N) por día.
type ReportRenderer struct{}

// NewReportRenderer crea el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (*ReportRenderer) ContentType() string { return ContentTypeXLSX }
func (*ReportRenderer) Extension() string   { return "xlsx" }

type styles struct {
	title, header, cell, bold, centered int
}

// Render escribe el libro y devuelve sus bytes.
func (r *ReportRenderer) Render(ctx context.Context, rep *report.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetReport); err != nil {
		return nil, fmt.Errorf("excel: hoja: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeReportSheet(f, rep, st); err != nil {
		return nil, err
	}
	if err := writeRankingSheet(f, rep, st); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	defs := []*excelize.Style{
		{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
			Alignment: center,
		},
		{
			Font:      &excelize.Font{Bold: true, Size: 9},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
			Alignment: center,
			Border:    border,
		},
		{Font: &excelize.Font{Size: 9}, Border: border},
		{Font: &excelize.Font{Size: 9, Bold: true}, Border: border, Alignment: center},
		{Font: &excelize.Font{Size: 9}, Border: border, Alignment: center},
	}
	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styles{}, fmt.Errorf("excel: estilo: %w", err)
		}
		ids[i] = id
	}
	return styles{title: ids[0], header: ids[1], cell: ids[2], bold: ids[3], centered: ids[4]}, nil
}

// sheetWriter escribe en una hoja y conserva el primer error; tras él no escribe nada más.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) fail(op string, err error) {
	if err != nil && w.err == nil {
		w.err = fmt.Errorf("excel: %s %s: %w", w.sheet, op, err)
	}
}

func (w *sheetWriter) cell(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	w.fail("celda", err)
	return name
}

func (w *sheetWriter) column(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	w.fail("columna", err)
	return name
}

func (w *sheetWriter) value(col, row int, v any) {
	if w.err == nil {
		w.fail("valor", w.f.SetCellValue(w.sheet, w.cell(col, row), v))
	}
}

func (w *sheetWriter) merge(col1, row1, col2, row2 int) {
	if w.err == nil {
		w.fail("combinar", w.f.MergeCell(w.sheet, w.cell(col1, row1), w.cell(col2, row2)))
	}
}

func (w *sheetWriter) style(col1, row1, col2, row2, id int) {
	if w.err == nil {
		w.fail("estilo", w.f.SetCellStyle(w.sheet, w.cell(col1, row1), w.cell(col2, row2), id))
	}
}

func (w *sheetWriter) rowHeight(row int, h float64) {
	if w.err == nil {
		w.fail("alto", w.f.SetRowHeight(w.sheet, row, h))
	}
}

func (w *sheetWriter) colWidth(from, to int, width float64) {
	if w.err == nil {
		w.fail("ancho", w.f.SetColWidth(w.sheet, w.column(from), w.column(to), width))
	}
}

func writeReportSheet(f *excelize.File, rep *report.Report, st styles) error {
	w := &sheetWriter{f: f, sheet: sheetReport}
	lastDay := firstDay + 3*len(rep.Days) - 1
	colDemand := lastDay + 1
	colStock := colDemand + 1

	orientation := "landscape"
	paper := 1 // carta
	if err := f.SetPageLayout(w.sheet, &excelize.PageLayoutOptions{Orientation: &orientation, Size: &paper}); err != nil {
		return fmt.Errorf("excel: página: %w", err)
	}
	lr, tb := 0.5, 0.75
	if err := f.SetPageMargins(w.sheet, &excelize.PageLayoutMarginsOptions{Left: &lr, Right: &lr, Top: &tb, Bottom: &tb}); err != nil {
		return fmt.Errorf("excel: márgenes: %w", err)
	}

	// Encabezado
	w.merge(1, 1, colStock, 1)
	w.value(1, 1, report.SheetTitle)
	w.style(1, 1, 1, 1, st.title)
	w.rowHeight(1, 30)
	w.value(1, 2, rep.Title)

	fixed := []string{"MEDICAMENTOS", "F. INGRESO", "F. VENC.", "STOCK INICIAL"}
	for i, h := range fixed {
		w.merge(i+1, headerRow, i+1, headerRow+1)
		w.value(i+1, headerRow, h)
	}
	for i, d := range rep.Days {
		col := firstDay + 3*i
		w.merge(col, headerRow, col+2, headerRow)
		w.value(col, headerRow, fmt.Sprintf("%s\n%s", report.WeekdayShort(d), d.Format("02/01")))
		for j, shift := range entity.Shifts {
			w.value(col+j, headerRow+1, shift)
		}
	}
	w.merge(colDemand, headerRow, colDemand, headerRow+1)
	w.value(colDemand, headerRow, "DEMANDA TOTAL")
	w.merge(colStock, headerRow, colStock, headerRow+1)
	w.value(colStock, headerRow, "STOCK ACTUAL")
	w.style(1, headerRow, colStock, headerRow+1, st.header)
	w.rowHeight(headerRow, 35)
	w.rowHeight(headerRow+1, 20)

	// Filas
	row := headerRow + 2
	for _, r := range rep.Rows {
		w.value(1, row, r.Name)
		if r.LastRestock != nil {
			w.value(2, row, r.LastRestock.Format(entity.DateLayout))
		}
		if r.Expiry != nil {
			w.value(3, row, r.Expiry.Format(entity.DateLayout))
		}
		w.value(4, row, r.InitialStock)
		for i, dc := range r.Daily {
			for j, shift := range entity.Shifts {
				if v := dc.ByShift[shift]; v > 0 {
					w.value(firstDay+3*i+j, row, v)
				}
			}
		}
		w.value(colDemand, row, r.TotalDemand)
		w.value(colStock, row, r.CurrentStock)

		w.style(1, row, 3, row, st.cell)
		w.style(4, row, lastDay, row, st.centered)
		w.style(colDemand, row, colStock, row, st.bold)
		row++
	}

	// Pie
	w.value(1, row+1, "Observaciones: Los medicamentos deben ser seleccionados según necesidades del servicio")
	w.value(2, row+3, "FIRMA RESPONSABLE:")
	w.value(2, row+4, "_____________________")

	w.colWidth(1, 1, 22)
	w.colWidth(2, 2, 12)
	w.colWidth(3, 3, 10)
	w.colWidth(4, 4, 12)
	if len(rep.Days) > 0 {
		w.colWidth(firstDay, lastDay, 5)
	}
	w.colWidth(colDemand, colStock, 10)
	return w.err
}

func writeRankingSheet(f *excelize.File, rep *report.Report, st styles) error {
	w := &sheetWriter{f: f, sheet: sheetRanking}
	if _, err := f.NewSheet(w.sheet); err != nil {
		return fmt.Errorf("excel: hoja ranking: %w", err)
	}
	w.value(1, 1, "TOP "+fmt.Sprint(report.RankingSize)+" DEMANDA - "+rep.Title)
	headers := []string{"#", "MEDICAMENTO", "TOTAL DISPENSADO", "PROMEDIO DIARIO"}
	for i, h := range headers {
		w.value(i+1, 3, h)
	}
	w.style(1, 3, 4, 3, st.header)
	for i, e := range rep.Ranking {
		row := 4 + i
		w.value(1, row, e.Position)
		w.value(2, row, e.Name)
		w.value(3, row, e.Total)
		w.value(4, row, e.DailyAverage.InexactFloat64())
		w.style(1, row, 4, row, st.cell)
	}
	w.colWidth(1, 1, 5)
	w.colWidth(2, 2, 30)
	w.colWidth(3, 4, 18)
	return w.err
}
