package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
)

type seedCmd struct {
	file   string
	latin1 bool
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "carga la dotación de medicamentos del carro" }
func (*seedCmd) Usage() string {
	return `carroctl seed [-f <archivo>] [-latin1]

  Crea los medicamentos en el orden indicado. Sin -f usa la dotación estándar.
  El archivo tiene un nombre por línea; las líneas vacías y las que empiezan
  con # se ignoran. Los nombres que ya existen no se duplican.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "archivo con un nombre de medicamento por línea")
	f.BoolVar(&c.latin1, "latin1", false, "el archivo está en ISO-8859-1 (exportado de Excel)")
}

func (c *seedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names := inventory.DefaultMedications
	if c.file != "" {
		fh, err := os.Open(c.file)
		if err != nil {
			fail("abrir archivo: %v", err)
			return subcommands.ExitUsageError
		}
		defer fh.Close()
		if names, err = readNames(fh, c.latin1); err != nil {
			fail("leer archivo: %v", err)
			return subcommands.ExitFailure
		}
	}

	app, err := openApplication(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	res, err := app.seed.Seed(ctx, operatorCLI, names)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	for _, m := range res.Created {
		fmt.Printf("+ %3d  %s\n", m.Order, m.Name)
	}
	for _, name := range res.Skipped {
		fmt.Printf("= ya existe  %s\n", name)
	}
	fmt.Printf("%d creados, %d existentes\n", len(res.Created), len(res.Skipped))
	return subcommands.ExitSuccess
}

// readNames un nombre por línea, sin vacíos ni comentarios.
func readNames(r io.Reader, latin1 bool) ([]string, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, sc.Err()
}
