package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/carro-urgencias/internal/application/auth"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/application/report"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
	"github.com/jhoicas/carro-urgencias/pkg/jwt"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName  string
	StoreDriver  string
	Store        repository.Pinger
	MedicationUC *inventory.MedicationUseCase
	MovementUC   *inventory.MovementUseCase
	InventoryUC  *inventory.InventoryUseCase
	SeedUC       *inventory.SeedUseCase
	ReportUC     *report.UseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string // vacío = sin autenticación
	SampleData   bool   // habilita POST /api/test/data (solo desarrollo)
	Log          *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log.Named("http")))

	// Health (público)
	system := NewSystemHandler(deps.ServiceName, deps.StoreDriver, deps.Store, deps.SeedUC)
	api.Get("/health", system.Health)

	// Login (público). Va antes del grupo protegido: Fiber ejecuta en orden de registro.
	authEnabled := deps.AuthUC != nil && deps.JWTSecret != ""
	authHandler := NewAuthHandler(deps.AuthUC)
	if authEnabled {
		api.Post("/auth/login", authHandler.Login)
	}

	// Con JWT_SECRET todas las rutas siguientes exigen Bearer token.
	var guard, admin, staff fiber.Handler = passthrough, passthrough, passthrough
	if deps.JWTSecret != "" {
		guard = AuthMiddleware(deps.JWTSecret)
		admin = RequireRole(jwt.RoleAdmin)
		staff = RequireRole(jwt.RoleAdmin, jwt.RoleEnfermeria)
	}
	protected := api.Group("/", guard)

	// Operadores (admin)
	if authEnabled {
		users := protected.Group("/auth/usuarios", admin)
		users.Get("/", authHandler.ListUsers)
		users.Post("/", authHandler.RegisterUser)
	}

	// Medicamentos
	medHandler := NewMedicationHandler(deps.MedicationUC)
	meds := protected.Group("/medicamentos")
	meds.Get("/", medHandler.List)
	meds.Get("/:id", medHandler.GetByID)
	meds.Post("/", admin, medHandler.Create)
	meds.Put("/:id", admin, medHandler.Update)
	meds.Delete("/:id", admin, medHandler.Delete)

	// Movimientos
	movHandler := NewMovementHandler(deps.MovementUC)
	movs := protected.Group("/movimientos")
	movs.Get("/", movHandler.History)
	movs.Post("/", staff, movHandler.Register)

	// Inventario y análisis
	invHandler := NewInventoryHandler(deps.InventoryUC)
	protected.Get("/inventario", invHandler.Inventory)
	protected.Get("/estadisticas", invHandler.Stats)
	protected.Get("/analisis/demanda", invHandler.TopDemand)

	// Reportes
	repHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reportes")
	reports.Get("/", repHandler.Generate)
	for _, period := range []string{report.PeriodWeekly, report.PeriodBiweekly} {
		for _, format := range []string{report.FormatExcel, report.FormatPDF} {
			reports.Get("/"+period+"-"+format, repHandler.Fixed(period, format))
		}
	}

	if deps.SampleData && deps.SeedUC != nil {
		protected.Post("/test/data", admin, system.SampleData)
	}
}

func passthrough(c *fiber.Ctx) error { return c.Next() }
