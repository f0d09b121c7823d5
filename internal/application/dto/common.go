package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StockErrorResponse error 400 de una salida que supera el stock disponible.
type StockErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available int    `json:"stock_actual"`
	Requested int    `json:"cantidad_solicitada"`
}

// MessageResponse confirmación simple.
type MessageResponse struct {
	Message string `json:"mensaje"`
}

// HealthResponse respuesta de GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Store   string `json:"store"` // connected | disconnected
	Driver  string `json:"driver"`
}

// SampleDataResponse respuesta de POST /api/test/data.
type SampleDataResponse struct {
	Message     string `json:"mensaje"`
	Medications int    `json:"medicamentos"`
	Movements   int    `json:"movimientos"`
}
