package dto

import "time"

// CreateMedicationRequest body para POST /api/medicamentos.
type CreateMedicationRequest struct {
	Name         string `json:"nombre"`
	Unit         string `json:"unidad"`
	Location     string `json:"ubicacion"`
	MinStock     *int   `json:"stock_minimo"`  // default 10
	InitialStock int    `json:"stock_inicial"` // > 0 registra un INGRESO inicial
}

// UpdateMedicationRequest body para PUT /api/medicamentos/:id (campos opcionales).
type UpdateMedicationRequest struct {
	Name     *string `json:"nombre"`
	Unit     *string `json:"unidad"`
	Location *string `json:"ubicacion"`
	MinStock *int    `json:"stock_minimo"`
}

// RestockDTO datos del último ingreso.
type RestockDTO struct {
	Date       string `json:"fecha"`
	ExpiryDate string `json:"fecha_vencimiento,omitempty"`
	Lot        string `json:"lote,omitempty"`
}

// MedicationResponse salida de un medicamento.
type MedicationResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"nombre"`
	Unit        string      `json:"unidad"`
	Location    string      `json:"ubicacion"`
	Quantity    int         `json:"stock_actual"`
	MinStock    int         `json:"stock_minimo"`
	Order       int         `json:"orden"`
	LastRestock *RestockDTO `json:"ultimo_ingreso"`
	CreatedAt   time.Time   `json:"fecha_creacion"`
	UpdatedAt   time.Time   `json:"fecha_actualizacion"`
}
