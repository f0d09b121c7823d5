package dto

import "github.com/shopspring/decimal"

// InventoryItemDTO fila de GET /api/inventario.
type InventoryItemDTO struct {
	ID               string      `json:"id"`
	Name             string      `json:"nombre"`
	Unit             string      `json:"unidad"`
	Location         string      `json:"ubicacion"`
	Stock            int         `json:"stock_actual"`
	MinStock         int         `json:"stock_minimo"`
	Status           string      `json:"estado"` // AGOTADO | CRITICO | BAJO | OK
	LastRestock      *RestockDTO `json:"ultimo_ingreso"`
	MonthlyDispensed int         `json:"egresos_mes"`
}

// StatsDTO respuesta de GET /api/estadisticas.
type StatsDTO struct {
	TotalMedications int `json:"total_medicamentos"`
	LowStockAlerts   int `json:"alertas_stock_bajo"`
	MovementsToday   int `json:"movimientos_hoy"`
}

// DemandRequest filtros de GET /api/analisis/demanda. Desde/Hasta tienen prioridad sobre Dias.
type DemandRequest struct {
	Days  int    `query:"dias"`
	From  string `query:"desde"`
	To    string `query:"hasta"`
	Limit int    `query:"limit"`
}

// DemandDTO posición del ranking de demanda.
type DemandDTO struct {
	MedicationID   string          `json:"medicamento_id"`
	Name           string          `json:"nombre"`
	TotalDispensed int             `json:"total_dispensado"`
	Frequency      int             `json:"frecuencia"`
	DailyAverage   decimal.Decimal `json:"promedio_diario"`
}
