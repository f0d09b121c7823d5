// carroctl tareas administrativas del carro de urgencias: carga de la dotación,
// emisión de tokens, ranking de demanda y reportes sin pasar por la API.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

var commands = []subcommands.Command{
	&seedCmd{},
	&tokenCmd{},
	&userCmd{},
	&demandCmd{},
	&reportCmd{},
}
