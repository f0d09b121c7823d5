package repository

import (
	"context"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

// MovementFilter criterios de consulta del historial. From/To comparan contra Movement.Date (inclusive).
type MovementFilter struct {
	MedicationID string
	Type         string
	From         *time.Time
	To           *time.Time
	Limit        int // <= 0 sin límite
}

// DispensedTotal agregado de salidas de un medicamento en un período.
type DispensedTotal struct {
	MedicationID string
	Total        int // unidades dispensadas
	Frequency    int // número de salidas
}

// MovementRepository define el puerto de persistencia del historial.
// Es append-only: no existe operación para modificar o borrar movimientos.
type MovementRepository interface {
	Create(ctx context.Context, mov *entity.Movement) error
	// List devuelve los movimientos más recientes primero (Date desc, RecordedAt desc).
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	Count(ctx context.Context, filter MovementFilter) (int, error)
	// SumDispensed agrupa las SALIDAS de [from, to] por medicamento, ordenadas por Total desc
	// (empate: MedicationID asc). limit <= 0 devuelve todos los grupos.
	SumDispensed(ctx context.Context, from, to time.Time, limit int) ([]DispensedTotal, error)
}

// Pinger comprueba la conectividad con el almacén.
type Pinger interface {
	Ping(ctx context.Context) error
}
