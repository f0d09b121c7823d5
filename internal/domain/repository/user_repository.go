package repository

import (
	"context"

	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
)

// UserRepository puerto de persistencia de las cuentas de operador.
type UserRepository interface {
	// Create falla con domain.ErrDuplicate si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	// GetByEmail devuelve (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}
