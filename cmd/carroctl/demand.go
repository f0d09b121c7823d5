package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
)

type demandCmd struct {
	days  int
	from  string
	to    string
	limit int
}

func (*demandCmd) Name() string     { return "demanda" }
func (*demandCmd) Synopsis() string { return "muestra los medicamentos más dispensados" }
func (*demandCmd) Usage() string {
	return `carroctl demanda [-dias 30] [-desde YYYY-MM-DD -hasta YYYY-MM-DD] [-n 10]
`
}

func (c *demandCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "dias", 30, "días hacia atrás desde hoy")
	f.StringVar(&c.from, "desde", "", "inicio de la ventana (con -hasta)")
	f.StringVar(&c.to, "hasta", "", "fin de la ventana (con -desde)")
	f.IntVar(&c.limit, "n", 10, "tamaño del ranking")
}

func (c *demandCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := openApplication(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	req := dto.DemandRequest{Days: c.days, From: c.from, To: c.to, Limit: c.limit}
	list, err := app.inventory.TopDemand(ctx, req)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(demandMarkdown(req, list))
	return subcommands.ExitSuccess
}

func demandMarkdown(req dto.DemandRequest, list []dto.DemandDTO) string {
	var b strings.Builder
	if req.From != "" {
		fmt.Fprintf(&b, "# Demanda del %s al %s\n\n", req.From, req.To)
	} else {
		fmt.Fprintf(&b, "# Demanda de los últimos %d días\n\n", req.Days)
	}
	if len(list) == 0 {
		b.WriteString("Sin salidas registradas en el período.\n")
		return b.String()
	}
	b.WriteString("| # | Medicamento | Dispensado | Salidas | Promedio diario |\n")
	b.WriteString("|---|---|---:|---:|---:|\n")
	for i, d := range list {
		fmt.Fprintf(&b, "| %d | %s | %d | %d | %s |\n", i+1, d.Name, d.TotalDispensed, d.Frequency, d.DailyAverage.StringFixed(2))
	}
	return b.String()
}
