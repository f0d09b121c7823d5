package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/report"
)

type reportCmd struct {
	start  string
	period string
	format string
	dir    string
}

func (*reportCmd) Name() string     { return "reporte" }
func (*reportCmd) Synopsis() string { return "genera el reporte semanal o quincenal en disco" }
func (*reportCmd) Usage() string {
	return `carroctl reporte -fecha YYYY-MM-DD [-periodo semanal|quincenal] [-formato excel|pdf] [-o <dir>]
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "fecha", "", "primer día del reporte")
	f.StringVar(&c.period, "periodo", report.PeriodWeekly, "semanal o quincenal")
	f.StringVar(&c.format, "formato", report.FormatExcel, "excel o pdf")
	f.StringVar(&c.dir, "o", ".", "directorio de salida")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.start == "" {
		fail("-fecha es requerido")
		return subcommands.ExitUsageError
	}
	app, err := openApplication(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	file, err := app.reports.Generate(ctx, dto.ReportRequest{StartDate: c.start, Period: c.period, Format: c.format})
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	out := filepath.Join(c.dir, file.Name)
	if err := os.WriteFile(out, file.Content, 0o644); err != nil {
		fail("escribir %s: %v", out, err)
		return subcommands.ExitFailure
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}
