// Package pdf genera la versión imprimible de los reportes del carro de urgencias.
//
// Layout de la página carta horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título del registro + período                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Medicamento | S.Ini | días... | Ingr | Dem | Final  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RANKING: top 10 de demanda del período                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: observaciones + firma responsable                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/carro-urgencias/internal/application/report"
)

// ContentTypePDF tipo MIME de los documentos generados.
const ContentTypePDF = "application/pdf"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 68, Green: 114, Blue: 196}
	colorHeader  = &props.Color{Red: 217, Green: 225, Blue: 242}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Anchos de columna en unidades de la grilla; cada día ocupa una.
const (
	nameCols  = 4
	fixedCols = 4 // ingresos, demanda, stock final, stock actual
)

var _ report.Renderer = (*ReportRenderer)(nil)

// ReportRenderer implementa report.Renderer usando Maroto v2.
type ReportRenderer struct{}

// NewReportRenderer construye el renderer.
func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (*ReportRenderer) ContentType() string { return ContentTypePDF }
func (*ReportRenderer) Extension() string   { return "pdf" }

// Render genera el PDF y devuelve sus bytes.
func (g *ReportRenderer) Render(ctx context.Context, rep *report.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid := gridSize(rep)
	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(report.SheetTitle, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow(rep))
	if len(rep.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(grid).Add(
			text.New("Sin medicamentos registrados", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(tableDetailRows(rep)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(rankingRows(rep, grid)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(footerRows(rep, grid)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func gridSize(rep *report.Report) int {
	return nameCols + 1 + len(rep.Days) + fixedCols
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rep *report.Report, grid int) core.Row {
	return row.New(16).Add(
		col.New(grid).Add(
			text.New(report.SheetTitle, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New(rep.Title, props.Text{
				Size: 9, Align: align.Center, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(rep *report.Report) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Top: 1.5, Left: 1, Right: 1,
		}))
	}
	cols := []core.Col{
		h("Medicamento", nameCols, align.Left),
		h("S. Ini", 1, align.Center),
	}
	for _, d := range rep.Days {
		cols = append(cols, h(report.WeekdayShort(d)+"\n"+d.Format("02/01"), 1, align.Center))
	}
	cols = append(cols,
		h("Ingr.", 1, align.Center),
		h("Dem.", 1, align.Center),
		h("S. Fin", 1, align.Center),
		h("Actual", 1, align.Center),
	)
	return row.New(10).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

// tableDetailRows: una fila por medicamento; cada día muestra el total dispensado.
func tableDetailRows(rep *report.Report) []core.Row {
	cellText := func(v int, bold bool) core.Component {
		p := props.Text{Size: 7, Align: align.Center, Top: 1}
		if bold {
			p.Style = fontstyle.Bold
		}
		s := ""
		if v != 0 || bold {
			s = strconv.Itoa(v)
		}
		return text.New(s, p)
	}

	rows := make([]core.Row, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		cols := []core.Col{
			col.New(nameCols).Add(text.New(r.Name, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(1).Add(cellText(r.InitialStock, false)),
		}
		for _, dc := range r.Daily {
			cols = append(cols, col.New(1).Add(cellText(dc.Total, false)))
		}
		cols = append(cols,
			col.New(1).Add(cellText(r.Restocked, false)),
			col.New(1).Add(cellText(r.TotalDemand, true)),
			col.New(1).Add(cellText(r.FinalStock, true)),
			col.New(1).Add(cellText(r.CurrentStock, true)),
		)
		rows = append(rows, row.New(6).Add(cols...))
	}
	return rows
}

func rankingRows(rep *report.Report, grid int) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(grid).Add(
			text.New(fmt.Sprintf("TOP %d DEMANDA DEL PERÍODO", report.RankingSize), props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if len(rep.Ranking) == 0 {
		return append(rows, row.New(6).Add(col.New(grid).Add(
			text.New("Sin salidas registradas en el período", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}

	nameWidth := grid - 6
	if nameWidth < 1 {
		nameWidth = 1
	}
	hdr := props.Text{Style: fontstyle.Bold, Size: 7, Top: 1, Color: colorWhite, Left: 1}
	rows = append(rows, row.New(6).Add(
		col.New(1).Add(text.New("#", hdr)),
		col.New(nameWidth).Add(text.New("Medicamento", hdr)),
		col.New(2).Add(text.New("Total", hdr)),
		col.New(3).Add(text.New("Promedio diario", hdr)),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary}))

	for _, e := range rep.Ranking {
		p := props.Text{Size: 7, Top: 1, Left: 1}
		rows = append(rows, row.New(5).Add(
			col.New(1).Add(text.New(strconv.Itoa(e.Position), p)),
			col.New(nameWidth).Add(text.New(e.Name, p)),
			col.New(2).Add(text.New(strconv.Itoa(e.Total), p)),
			col.New(3).Add(text.New(e.DailyAverage.StringFixed(2), p)),
		))
	}
	return rows
}

func footerRows(rep *report.Report, grid int) []core.Row {
	half := grid / 2
	return []core.Row{
		row.New(6).Add(col.New(grid).Add(
			text.New("Observaciones: Los medicamentos deben ser seleccionados según necesidades del servicio", props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)),
		row.New(14).Add(
			col.New(half).Add(
				text.New("FIRMA RESPONSABLE:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}),
				text.New("_____________________", props.Text{Size: 8, Top: 9}),
			),
			col.New(grid-half).Add(
				text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
					Size: 7, Align: align.Right, Top: 9, Color: colorGray,
				}),
			),
		),
	}
}
