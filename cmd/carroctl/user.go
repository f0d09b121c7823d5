package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/pkg/jwt"
)

type userCmd struct {
	email string
	name  string
	role  string
}

func (*userCmd) Name() string     { return "usuario" }
func (*userCmd) Synopsis() string { return "crea una cuenta de operador para POST /api/auth/login" }
func (*userCmd) Usage() string {
	return `carroctl usuario -email <correo> [-nombre <nombre>] [-role admin|enfermeria]

  La contraseña se lee de la entrada estándar (primera línea).
`
}

func (c *userCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "correo del operador")
	f.StringVar(&c.name, "nombre", "", "nombre visible")
	f.StringVar(&c.role, "role", jwt.RoleEnfermeria, "rol: admin o enfermeria")
}

func (c *userCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fail("-email es requerido")
		return subcommands.ExitUsageError
	}
	fmt.Fprint(os.Stderr, "Contraseña: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		fail("leer contraseña: %v", err)
		return subcommands.ExitUsageError
	}

	app, err := openApplication(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	out, err := app.auth.RegisterUser(ctx, dto.RegisterUserRequest{
		Email:    c.email,
		Name:     c.name,
		Password: strings.TrimRight(password, "\r\n"),
		Role:     c.role,
	})
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s  %s  (%s)\n", out.ID, out.Email, out.Role)
	return subcommands.ExitSuccess
}
