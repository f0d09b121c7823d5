package dto

import "time"

// RegisterMovementRequest body para POST /api/movimientos.
type RegisterMovementRequest struct {
	MedicationID string `json:"medicamento_id"`
	Type         string `json:"tipo"`  // INGRESO | SALIDA
	Date         string `json:"fecha"` // YYYY-MM-DD; vacío = hoy
	Quantity     int    `json:"cantidad"`
	Shift        string `json:"turno"` // M | T | N
	ExpiryDate   string `json:"fecha_vencimiento"`
	Notes        string `json:"observaciones"`
}

// RegisterMovementResponse respuesta de un movimiento registrado.
type RegisterMovementResponse struct {
	ID           string `json:"id"`
	Message      string `json:"mensaje"`
	CurrentStock int    `json:"stock_actual"`
}

// MovementHistoryRequest filtros de GET /api/movimientos.
type MovementHistoryRequest struct {
	MedicationID string `query:"medicamento_id"`
	Type         string `query:"tipo"`
	From         string `query:"desde"`
	To           string `query:"hasta"`
	Limit        int    `query:"limit"`
}

// MovementResponse entrada del historial con el nombre del medicamento resuelto.
type MovementResponse struct {
	ID             string    `json:"id"`
	MedicationID   string    `json:"medicamento_id"`
	MedicationName string    `json:"medicamento_nombre"`
	Type           string    `json:"tipo"`
	Quantity       int       `json:"cantidad"`
	Date           string    `json:"fecha"`
	Shift          string    `json:"turno,omitempty"`
	ExpiryDate     string    `json:"fecha_vencimiento,omitempty"`
	Notes          string    `json:"observaciones,omitempty"`
	Operator       string    `json:"operador"`
	RecordedAt     time.Time `json:"fecha_registro"`
}
