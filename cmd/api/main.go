package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/carro-urgencias/internal/application/auth"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/application/report"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/excel"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/carro-urgencias/internal/infrastructure/pdf"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/carro-urgencias/internal/interfaces/http"
	"github.com/jhoicas/carro-urgencias/pkg/config"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("conexión al almacén")
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("cerrar almacén")
		}
	}()

	// Kafka es opcional: sin KAFKA_BROKERS los movimientos no se publican.
	var publisher inventory.MovementPublisher = inventory.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kafkaPub := messaging.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPub.Close()
		publisher = kafkaPub
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de movimientos activa")
	}

	clock := inventory.SystemClock{Location: cfg.Report.Location()}
	movementUC := inventory.NewMovementUseCase(backend.Tx, backend.Medications, backend.Movements, publisher, clock, log.Named("movimientos"))
	medicationUC := inventory.NewMedicationUseCase(backend.Medications, movementUC, clock)
	inventoryUC := inventory.NewInventoryUseCase(backend.Medications, backend.Movements, clock)
	seedUC := inventory.NewSeedUseCase(medicationUC, movementUC)
	reportUC := report.NewUseCase(backend.Medications, backend.Movements, map[string]report.Renderer{
		report.FormatExcel: excel.NewReportRenderer(),
		report.FormatPDF:   infrapdf.NewReportRenderer(),
	}, clock)
	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, clock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition",
	}))

	// Swagger UI en local: http://localhost:<port>/docs (swagger.New falla sin el archivo)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Carro de Urgencias API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName:  cfg.App.Name,
		StoreDriver:  backend.Driver,
		Store:        backend,
		MedicationUC: medicationUC,
		MovementUC:   movementUC,
		InventoryUC:  inventoryUC,
		SeedUC:       seedUC,
		ReportUC:     reportUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
		SampleData:   cfg.App.IsDevelopment(),
		Log:          log,
	})

	if cfg.HTTP.StaticDir != "" {
		app.Static("/", cfg.HTTP.StaticDir, fiber.Static{Index: "index.html"})
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
