package repository

import (
	"context"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

// MedicationFilter criterios de listado. Sin campos = todos los activos.
type MedicationFilter struct {
	BelowThreshold bool     // solo stock <= mínimo
	IncludeDeleted bool     // incluir dados de baja (resolver nombres del historial)
	IDs            []string // restringir a estos IDs
}

// MedicationRepository define el puerto de persistencia para Medication (DIP).
type MedicationRepository interface {
	Create(ctx context.Context, med *entity.Medication) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Medication, error)
	// Update persiste nombre, unidad, ubicación y stock mínimo. No modifica Quantity.
	Update(ctx context.Context, med *entity.Medication) error
	// List devuelve los medicamentos ordenados por Order.
	List(ctx context.Context, filter MedicationFilter) ([]*entity.Medication, error)
	// AdjustQuantity suma delta al stock de forma atómica. Si el resultado fuese negativo
	// devuelve *domain.StockError y no modifica nada. restock != nil actualiza LastRestock.
	AdjustQuantity(ctx context.Context, id string, delta int, restock *entity.RestockInfo) (*entity.Medication, error)
	// SoftDelete marca DeletedAt; los movimientos no se tocan.
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// NextOrder devuelve la siguiente posición libre en el carro.
	NextOrder(ctx context.Context) (int, error)
}
