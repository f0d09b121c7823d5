package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios atados a la misma unidad de trabajo.
// En PostgreSQL es una transacción; en Mongo una sesión (si el despliegue lo permite).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		medRepo repository.MedicationRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MovementEvent se publica después de registrar cada movimiento.
type MovementEvent struct {
	MovementID     string    `json:"movement_id"`
	MedicationID   string    `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	Type           string    `json:"type"`
	Quantity       int       `json:"quantity"`
	Date           string    `json:"date"`
	Shift          string    `json:"shift,omitempty"`
	Operator       string    `json:"operator"`
	StockAfter     int       `json:"stock_after"`
	BelowThreshold bool      `json:"below_threshold"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// MovementPublisher difunde los movimientos registrados (Kafka o no-op).
type MovementPublisher interface {
	PublishMovement(ctx context.Context, event MovementEvent) error
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

// PublishMovement no hace nada.
func (NopPublisher) PublishMovement(context.Context, MovementEvent) error { return nil }

// Clock fuente de tiempo de los casos de uso (inyectable en tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real en la zona horaria del carro.
type SystemClock struct {
	Location *time.Location
}

// Now devuelve la hora actual en Location (UTC si es nil).
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}
