package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepository)(nil)

// UserRepository cuentas de operador en memoria, indexadas por email.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Email]; ok {
		return domain.ErrDuplicate
	}
	c := *user
	r.s.users[user.Email] = &c
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
