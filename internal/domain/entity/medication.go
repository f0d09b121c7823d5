package entity

import "time"

// DefaultMinStock stock mínimo cuando no se indica uno.
const DefaultMinStock = 10

// Medication representa un medicamento del carro de urgencias.
// Quantity nunca es negativa; se modifica solo vía movimientos.
type Medication struct {
	ID          string
	Name        string
	Unit        string // ampolla, vial, tableta...
	Quantity    int
	MinStock    int
	Location    string // cajón o compartimento del carro
	Order       int    // posición en el carro (listados y reportes)
	LastRestock *RestockInfo
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // baja lógica; su historial se conserva
}

// RestockInfo datos del último ingreso.
type RestockInfo struct {
	Date       time.Time
	ExpiryDate *time.Time
	Lot        string
}

// Active indica si el medicamento sigue en el carro.
func (m *Medication) Active() bool {
	return m.DeletedAt == nil
}

// BelowThreshold indica si el stock está en o por debajo del mínimo.
func (m *Medication) BelowThreshold() bool {
	return m.Quantity <= m.MinStock
}
