package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.MedicationRepository = (*MedicationRepository)(nil)

// MedicationRepository implementación en memoria del puerto de medicamentos.
type MedicationRepository struct {
	s    *Store
	undo *undoLog
}

// nameTaken busca otro medicamento activo con el mismo nombre (sin distinguir mayúsculas). Requiere s.mu.
func (r *MedicationRepository) nameTaken(name, exceptID string) bool {
	name = strings.TrimSpace(name)
	for id, m := range r.s.medications {
		if id != exceptID && m.Active() && strings.EqualFold(strings.TrimSpace(m.Name), name) {
			return true
		}
	}
	return false
}

func (r *MedicationRepository) Create(ctx context.Context, med *entity.Medication) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.medications[med.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.nameTaken(med.Name, "") {
		return domain.ErrDuplicate
	}
	r.s.medications[med.ID] = cloneMedication(med)
	id := med.ID
	r.undo.push(func() { delete(r.s.medications, id) })
	return nil
}

func (r *MedicationRepository) GetByID(ctx context.Context, id string) (*entity.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.medications[id]
	if !ok {
		return nil, nil
	}
	return cloneMedication(m), nil
}

func (r *MedicationRepository) Update(ctx context.Context, med *entity.Medication) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.medications[med.ID]
	if !ok || !cur.Active() {
		return domain.ErrNotFound
	}
	if r.nameTaken(med.Name, med.ID) {
		return domain.ErrDuplicate
	}
	prev := *cur
	r.undo.push(func() {
		cur.Name = prev.Name
		cur.Unit = prev.Unit
		cur.Location = prev.Location
		cur.MinStock = prev.MinStock
		cur.UpdatedAt = prev.UpdatedAt
	})
	cur.Name = med.Name
	cur.Unit = med.Unit
	cur.Location = med.Location
	cur.MinStock = med.MinStock
	cur.UpdatedAt = med.UpdatedAt
	return nil
}

func (r *MedicationRepository) List(ctx context.Context, filter repository.MedicationFilter) ([]*entity.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids map[string]bool
	if len(filter.IDs) > 0 {
		ids = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}

	r.s.mu.RLock()
	out := make([]*entity.Medication, 0, len(r.s.medications))
	for _, m := range r.s.medications {
		if !filter.IncludeDeleted && !m.Active() {
			continue
		}
		if filter.BelowThreshold && !m.BelowThreshold() {
			continue
		}
		if ids != nil && !ids[m.ID] {
			continue
		}
		out = append(out, cloneMedication(m))
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MedicationRepository) AdjustQuantity(ctx context.Context, id string, delta int, restock *entity.RestockInfo) (*entity.Medication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m.Quantity+delta < 0 {
		return nil, &domain.StockError{MedicationID: id, Available: m.Quantity, Requested: -delta}
	}
	prevRestock, prevUpdated := m.LastRestock, m.UpdatedAt
	r.undo.push(func() {
		m.Quantity -= delta
		m.LastRestock = prevRestock
		m.UpdatedAt = prevUpdated
	})
	m.Quantity += delta
	if restock != nil {
		r := *restock
		m.LastRestock = &r
	}
	m.UpdatedAt = time.Now().UTC()
	return cloneMedication(m), nil
}

func (r *MedicationRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medications[id]
	if !ok || !m.Active() {
		return domain.ErrNotFound
	}
	prevUpdated := m.UpdatedAt
	r.undo.push(func() {
		m.DeletedAt = nil
		m.UpdatedAt = prevUpdated
	})
	m.DeletedAt = &at
	m.UpdatedAt = at
	return nil
}

func (r *MedicationRepository) NextOrder(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	max := 0
	for _, m := range r.s.medications {
		if m.Order > max {
			max = m.Order
		}
	}
	return max + 1, nil
}
