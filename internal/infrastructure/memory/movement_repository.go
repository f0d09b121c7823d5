package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository historial append-only en memoria.
type MovementRepository struct {
	s    *Store
	undo *undoLog
}

func (r *MovementRepository) Create(ctx context.Context, mov *entity.Movement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == mov.ID {
			return domain.ErrDuplicate
		}
	}
	r.s.movements = append(r.s.movements, cloneMovement(mov))
	id := mov.ID
	r.undo.push(func() {
		for i, m := range r.s.movements {
			if m.ID == id {
				r.s.movements = append(r.s.movements[:i], r.s.movements[i+1:]...)
				return
			}
		}
	})
	return nil
}

func matches(m *entity.Movement, f repository.MovementFilter) bool {
	if f.MedicationID != "" && m.MedicationID != f.MedicationID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

func (r *MovementRepository) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]*entity.Movement, 0)
	for _, m := range r.s.movements {
		if matches(m, filter) {
			out = append(out, cloneMovement(m))
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MovementRepository) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, m := range r.s.movements {
		if matches(m, filter) {
			n++
		}
	}
	return n, nil
}

func (r *MovementRepository) SumDispensed(ctx context.Context, from, to time.Time, limit int) ([]repository.DispensedTotal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter := repository.MovementFilter{Type: entity.MovementTypeOUT, From: &from, To: &to}

	r.s.mu.RLock()
	byMed := make(map[string]*repository.DispensedTotal)
	for _, m := range r.s.movements {
		if !matches(m, filter) {
			continue
		}
		t, ok := byMed[m.MedicationID]
		if !ok {
			t = &repository.DispensedTotal{MedicationID: m.MedicationID}
			byMed[m.MedicationID] = t
		}
		t.Total += m.Quantity
		t.Frequency++
	}
	r.s.mu.RUnlock()

	out := make([]repository.DispensedTotal, 0, len(byMed))
	for _, t := range byMed {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].MedicationID < out[j].MedicationID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
