package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeIN  = "INGRESO" // reposición
	MovementTypeOUT = "SALIDA"  // dispensación
)

// Turnos de dispensación.
const (
	ShiftMorning   = "M"
	ShiftAfternoon = "T"
	ShiftNight     = "N"
)

// Shifts en el orden de las columnas del reporte.
var Shifts = []string{ShiftMorning, ShiftAfternoon, ShiftNight}

// DateLayout formato de fechas de calendario en la API y en los documentos.
const DateLayout = "2006-01-02"

// Movement entrada del historial. Inmutable una vez creada (append-only).
// MedicationID es una referencia débil: la baja del medicamento no altera el historial.
type Movement struct {
	ID           string
	MedicationID string
	Type         string
	Quantity     int       // siempre positiva; el signo lo da Type
	Date         time.Time // día del movimiento (00:00 UTC)
	Shift        string
	ExpiryDate   *time.Time
	Notes        string // lote u observaciones
	Operator     string
	RecordedAt   time.Time
}

// Delta devuelve la variación de stock que produce el movimiento.
func (m *Movement) Delta() int {
	if m.Type == MovementTypeOUT {
		return -m.Quantity
	}
	return m.Quantity
}

// ValidMovementType indica si t es INGRESO o SALIDA.
func ValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// ValidShift acepta M, T, N o vacío.
func ValidShift(s string) bool {
	switch s {
	case "", ShiftMorning, ShiftAfternoon, ShiftNight:
		return true
	}
	return false
}

// Day trunca t al día de calendario en UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
