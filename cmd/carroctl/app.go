package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/jhoicas/carro-urgencias/internal/application/auth"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/application/report"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/excel"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/messaging"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/pdf"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/storage"
	"github.com/jhoicas/carro-urgencias/pkg/config"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

// operatorCLI firma de los movimientos creados desde la consola.
const operatorCLI = "carroctl"

// application casos de uso sobre el almacén configurado.
type application struct {
	cfg         *config.Config
	backend     *storage.Backend
	kafka       *messaging.KafkaPublisher
	medications *inventory.MedicationUseCase
	inventory   *inventory.InventoryUseCase
	seed        *inventory.SeedUseCase
	reports     *report.UseCase
	auth        *auth.AuthUseCase
}

func openApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	publisher, kafkaPub := movementPublisher(cfg.Kafka)
	clock := inventory.SystemClock{Location: cfg.Report.Location()}
	movements := inventory.NewMovementUseCase(backend.Tx, backend.Medications, backend.Movements, publisher, clock, log.Named("movimientos"))
	medications := inventory.NewMedicationUseCase(backend.Medications, movements, clock)
	return &application{
		cfg:         cfg,
		backend:     backend,
		kafka:       kafkaPub,
		medications: medications,
		inventory:   inventory.NewInventoryUseCase(backend.Medications, backend.Movements, clock),
		seed:        inventory.NewSeedUseCase(medications, movements),
		reports: report.NewUseCase(backend.Medications, backend.Movements, map[string]report.Renderer{
			report.FormatExcel: excel.NewReportRenderer(),
			report.FormatPDF:   pdf.NewReportRenderer(),
		}, clock),
		auth: auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, clock),
	}, nil
}

// movementPublisher publica en Kafka los movimientos creados desde la consola, igual que la API.
// Sin brokers devuelve NopPublisher y un writer nil.
func movementPublisher(cfg config.KafkaConfig) (inventory.MovementPublisher, *messaging.KafkaPublisher) {
	if !cfg.Enabled() {
		return inventory.NopPublisher{}, nil
	}
	p := messaging.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	return p, p
}

func (a *application) Close() {
	if a.kafka != nil {
		_ = a.kafka.Close()
	}
	_ = a.backend.Close(context.Background())
}

// printMarkdown muestra md formateado para la terminal; sin estilo si glamour falla.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
