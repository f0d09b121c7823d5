package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/jhoicas/carro-urgencias/pkg/config"
	"github.com/jhoicas/carro-urgencias/pkg/jwt"
)

type tokenCmd struct {
	email   string
	role    string
	userID  string
	minutes int
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "emite un token de operador firmado con JWT_SECRET" }
func (*tokenCmd) Usage() string {
	return `carroctl token -email <correo> [-role admin|enfermeria] [-user <id>] [-min <minutos>]
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "correo del operador (se registra en los movimientos)")
	f.StringVar(&c.role, "role", jwt.RoleEnfermeria, "rol: admin o enfermeria")
	f.StringVar(&c.userID, "user", "", "id del operador (uuid nuevo si se omite)")
	f.IntVar(&c.minutes, "min", 0, "vigencia en minutos (JWT_EXPIRATION_MINUTES si se omite)")
}

func (c *tokenCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fail("-email es requerido")
		return subcommands.ExitUsageError
	}
	if c.role != jwt.RoleAdmin && c.role != jwt.RoleEnfermeria {
		fail("rol desconocido %q", c.role)
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if !cfg.JWT.Enabled() {
		fail("JWT_SECRET no está definido")
		return subcommands.ExitFailure
	}
	if c.userID == "" {
		c.userID = uuid.New().String()
	}
	minutes := c.minutes
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Operator{UserID: c.userID, Email: c.email, Role: c.role}, cfg.JWT.Issuer, minutes)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Println(tok)
	return subcommands.ExitSuccess
}
