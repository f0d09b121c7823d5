package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carro-urgencias/internal/application/auth"
	"github.com/jhoicas/carro-urgencias/internal/application/dto"
	"github.com/jhoicas/carro-urgencias/internal/application/inventory"
	"github.com/jhoicas/carro-urgencias/internal/application/report"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/excel"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/memory"
	"github.com/jhoicas/carro-urgencias/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/carro-urgencias/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/carro-urgencias/pkg/jwt"
	"github.com/jhoicas/carro-urgencias/pkg/logger"
)

// newAPI arma la API completa sobre el almacén en memoria. secret vacío = sin autenticación.
func newAPI(t *testing.T, secret string) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	clock := inventory.SystemClock{Location: time.UTC}
	movements := inventory.NewMovementUseCase(store, store.Medications(), store.Movements(), nil, clock, logger.Nop())
	medications := inventory.NewMedicationUseCase(store.Medications(), movements, clock)
	renderers := map[string]report.Renderer{
		report.FormatExcel: excel.NewReportRenderer(),
		report.FormatPDF:   pdf.NewReportRenderer(),
	}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName:  "carro-urgencias-test",
		StoreDriver:  "memory",
		Store:        store,
		MedicationUC: medications,
		MovementUC:   movements,
		InventoryUC:  inventory.NewInventoryUseCase(store.Medications(), store.Movements(), clock),
		SeedUC:       inventory.NewSeedUseCase(medications, movements),
		ReportUC:     report.NewUseCase(store.Medications(), store.Movements(), renderers, clock),
		JWTSecret:    secret,
		SampleData:   true,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, auth string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createMedication(t *testing.T, app *fiber.App, name string, initial int) dto.MedicationResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/medicamentos", dto.CreateMedicationRequest{Name: name, InitialStock: initial}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.MedicationResponse](t, resp)
}

func TestHealth(t *testing.T) {
	app := newAPI(t, testJWTSecret)
	// Health es público aun con autenticación activa.
	resp := call(t, app, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "connected", body.Store)
	assert.Equal(t, "memory", body.Driver)
}

func TestMedicamentos_CRUD(t *testing.T) {
	app := newAPI(t, "")

	created := createMedication(t, app, "Adrenalina", 20)
	assert.Equal(t, 20, created.Quantity)
	assert.Equal(t, 10, created.MinStock)

	resp := call(t, app, http.MethodPost, "/api/medicamentos", dto.CreateMedicationRequest{Name: "adrenalina"}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un medicamento activo con ese nombre"}, decode[dto.ErrorResponse](t, resp))

	resp = call(t, app, http.MethodPost, "/api/medicamentos", dto.CreateMedicationRequest{Name: "  "}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "nombre", decode[dto.ErrorResponse](t, resp).Field)

	name := "Epinefrina"
	resp = call(t, app, http.MethodPut, "/api/medicamentos/"+created.ID, dto.UpdateMedicationRequest{Name: &name}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Epinefrina", decode[dto.MedicationResponse](t, resp).Name)

	resp = call(t, app, http.MethodGet, "/api/medicamentos", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.MedicationResponse](t, resp), 1)

	resp = call(t, app, http.MethodDelete, "/api/medicamentos/"+created.ID, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/medicamentos/"+created.ID, nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, inventory.MsgMedicationNotFound, decode[dto.ErrorResponse](t, resp).Message)

	// El historial del medicamento retirado se conserva.
	resp = call(t, app, http.MethodGet, "/api/movimientos?medicamento_id="+created.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, "Epinefrina", history[0].MedicationName)
}

func TestMovimientos_RegistroYStockInsuficiente(t *testing.T) {
	app := newAPI(t, "")
	med := createMedication(t, app, "Atropina", 5)

	resp := call(t, app, http.MethodPost, "/api/movimientos", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "salida", Quantity: 3, Shift: "n",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.RegisterMovementResponse](t, resp)
	assert.Equal(t, 2, out.CurrentStock)

	resp = call(t, app, http.MethodPost, "/api/movimientos", dto.RegisterMovementRequest{
		MedicationID: med.ID, Type: "SALIDA", Quantity: 5,
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	stockErr := decode[dto.StockErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", stockErr.Code)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	resp = call(t, app, http.MethodPost, "/api/movimientos", dto.RegisterMovementRequest{
		MedicationID: "no-existe", Type: "INGRESO", Quantity: 1,
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/movimientos?tipo=SALIDA", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, "anonimo", history[0].Operator)
	assert.Equal(t, "N", history[0].Shift)
}

func TestMovimientos_CuerpoInvalido(t *testing.T) {
	app := newAPI(t, "")
	req := httptest.NewRequest(http.MethodPost, "/api/movimientos", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestInventarioEstadisticasYDemanda(t *testing.T) {
	app := newAPI(t, "")
	low := createMedication(t, app, "Morfina", 3)
	ok := createMedication(t, app, "Diazepam", 40)
	for _, q := range []int{4, 4} {
		resp := call(t, app, http.MethodPost, "/api/movimientos", dto.RegisterMovementRequest{MedicationID: ok.ID, Type: "SALIDA", Quantity: q}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := call(t, app, http.MethodGet, "/api/inventario?bajo_minimo=true", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]dto.InventoryItemDTO](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
	assert.Equal(t, "CRITICO", items[0].Status)

	resp = call(t, app, http.MethodGet, "/api/estadisticas", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.StatsDTO](t, resp)
	assert.Equal(t, 2, stats.TotalMedications)
	assert.Equal(t, 1, stats.LowStockAlerts)
	assert.Equal(t, 4, stats.MovementsToday)

	resp = call(t, app, http.MethodGet, "/api/analisis/demanda?dias=7", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	demand := decode[[]dto.DemandDTO](t, resp)
	require.Len(t, demand, 1)
	assert.Equal(t, "Diazepam", demand[0].Name)
	assert.Equal(t, 8, demand[0].TotalDispensed)
	assert.Equal(t, 2, demand[0].Frequency)

	resp = call(t, app, http.MethodGet, "/api/analisis/demanda?dias=400", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestReportes_DescargaAdjunto(t *testing.T) {
	app := newAPI(t, "")
	createMedication(t, app, "Lidocaina", 12)
	today := time.Now().UTC().Format("2006-01-02")
	stamp := time.Now().UTC().Format("20060102")

	resp := call(t, app, http.MethodGet, "/api/reportes?fecha_inicio="+today+"&periodo=quincenal&formato=excel", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, excel.ContentTypeXLSX, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Reporte_Quincenal_`+stamp+`.xlsx"`, resp.Header.Get("Content-Disposition"))
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "xlsx es un zip")

	resp = call(t, app, http.MethodGet, "/api/reportes/semanal-pdf?fecha_inicio="+today, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pdf.ContentTypePDF, resp.Header.Get("Content-Type"))
	raw, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/api/reportes?periodo=semanal", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "fecha_inicio", decode[dto.ErrorResponse](t, resp).Field)

	resp = call(t, app, http.MethodGet, "/api/reportes?fecha_inicio="+today+"&formato=csv", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "formato", decode[dto.ErrorResponse](t, resp).Field)
}

func TestAutenticacion_RolesPorRuta(t *testing.T) {
	app := newAPI(t, testJWTSecret)
	admin := tokenForRole(t, pkgjwt.RoleAdmin)
	nurse := tokenForRole(t, pkgjwt.RoleEnfermeria)

	resp := call(t, app, http.MethodGet, "/api/medicamentos", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/medicamentos", dto.CreateMedicationRequest{Name: "Furosemida", InitialStock: 10}, nurse)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/medicamentos", dto.CreateMedicationRequest{Name: "Furosemida", InitialStock: 10}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	med := decode[dto.MedicationResponse](t, resp)

	resp = call(t, app, http.MethodPost, "/api/movimientos", dto.RegisterMovementRequest{MedicationID: med.ID, Type: "SALIDA", Quantity: 1}, nurse)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/movimientos?tipo=SALIDA", nil, nurse)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, history, 1)
	assert.Equal(t, testEmail, history[0].Operator)

	resp = call(t, app, http.MethodPost, "/api/test/data", nil, nurse)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestDatosDePrueba(t *testing.T) {
	app := newAPI(t, "")
	resp := call(t, app, http.MethodPost, "/api/test/data", nil, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.SampleDataResponse](t, resp)
	assert.Equal(t, len(inventory.DefaultMedications), out.Medications)
	assert.Equal(t, 5, out.Movements)
}

func TestRutaDesconocida(t *testing.T) {
	app := newAPI(t, "")
	resp := call(t, app, http.MethodGet, "/api/no-existe", nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ROUTE_NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAuth_LoginYGestionDeOperadores(t *testing.T) {
	store := memory.NewStore()
	clock := inventory.SystemClock{Location: time.UTC}
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, clock)
	_, err := authUC.RegisterUser(context.Background(), dto.RegisterUserRequest{Email: "jefe@hospital.test", Password: "clave-segura", Role: pkgjwt.RoleAdmin})
	require.NoError(t, err)

	movements := inventory.NewMovementUseCase(store, store.Medications(), store.Movements(), nil, clock, logger.Nop())
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		Store:        store,
		MedicationUC: inventory.NewMedicationUseCase(store.Medications(), movements, clock),
		MovementUC:   movements,
		InventoryUC:  inventory.NewInventoryUseCase(store.Medications(), store.Movements(), clock),
		AuthUC:       authUC,
		JWTSecret:    testJWTSecret,
	})

	resp := call(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "jefe@hospital.test", Password: "incorrecta"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: " JEFE@hospital.test ", Password: "clave-segura"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, pkgjwt.RoleAdmin, login.User.Role)
	bearer := "Bearer " + login.Token

	resp = call(t, app, http.MethodPost, "/api/auth/usuarios", dto.RegisterUserRequest{Email: "turno.noche@hospital.test", Password: "otra-clave-1"}, bearer)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, pkgjwt.RoleEnfermeria, decode[dto.UserResponse](t, resp).Role)

	resp = call(t, app, http.MethodPost, "/api/auth/usuarios", dto.RegisterUserRequest{Email: "Turno.Noche@hospital.test", Password: "otra-clave-2"}, bearer)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un operador con ese email"}, decode[dto.ErrorResponse](t, resp))

	resp = call(t, app, http.MethodGet, "/api/auth/usuarios", nil, tokenForRole(t, pkgjwt.RoleEnfermeria))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/auth/usuarios", nil, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.UserResponse](t, resp), 2)
}

// brokenMedications simula un almacén caído al listar.
type brokenMedications struct {
	repository.MedicationRepository
}

func (brokenMedications) List(context.Context, repository.MedicationFilter) ([]*entity.Medication, error) {
	return nil, errors.New("mongo: connection refused 10.0.0.7:27017")
}

func TestErrorInterno_NoExponeDetalle(t *testing.T) {
	store := memory.NewStore()
	clock := inventory.SystemClock{Location: time.UTC}
	meds := brokenMedications{MedicationRepository: store.Medications()}
	movements := inventory.NewMovementUseCase(store, meds, store.Movements(), nil, clock, logger.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		Store:        store,
		MedicationUC: inventory.NewMedicationUseCase(meds, movements, clock),
		MovementUC:   movements,
		InventoryUC:  inventory.NewInventoryUseCase(meds, store.Movements(), clock),
		Log:          logger.Nop(),
	})

	resp := call(t, app, http.MethodGet, "/api/medicamentos", nil, "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}, decode[dto.ErrorResponse](t, resp))
}
