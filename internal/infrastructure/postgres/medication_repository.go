package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.MedicationRepository = (*MedicationRepo)(nil)

const medicationColumns = `id, name, unit, quantity, min_stock, location, sort_order,
	last_restock_date, last_restock_expiry, last_restock_lot, created_at, updated_at, deleted_at`

// MedicationRepo implementación sobre PostgreSQL (usable con pool o tx).
type MedicationRepo struct {
	q Querier
}

// NewMedicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMedicationRepository(q Querier) *MedicationRepo {
	return &MedicationRepo{q: q}
}

// Create inserta el medicamento. Un nombre activo repetido devuelve domain.ErrDuplicate.
func (r *MedicationRepo) Create(ctx context.Context, med *entity.Medication) error {
	query := `
		INSERT INTO medications (id, name, unit, quantity, min_stock, location, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		med.ID, med.Name, med.Unit, med.Quantity, med.MinStock, med.Location, med.Order,
		med.CreatedAt, med.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create medication: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *MedicationRepo) GetByID(ctx context.Context, id string) (*entity.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`
	med, err := scanMedication(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return med, nil
}

// Update persiste los campos descriptivos de un medicamento activo.
func (r *MedicationRepo) Update(ctx context.Context, med *entity.Medication) error {
	query := `
		UPDATE medications SET name = $2, unit = $3, location = $4, min_stock = $5, updated_at = $6
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, med.ID, med.Name, med.Unit, med.Location, med.MinStock, med.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los medicamentos según el filtro, en el orden del carro.
func (r *MedicationRepo) List(ctx context.Context, filter repository.MedicationFilter) ([]*entity.Medication, error) {
	var conds []string
	var args []any
	if !filter.IncludeDeleted {
		conds = append(conds, "deleted_at IS NULL")
	}
	if filter.BelowThreshold {
		conds = append(conds, "quantity <= min_stock")
	}
	if len(filter.IDs) > 0 {
		args = append(args, filter.IDs)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	query := `SELECT ` + medicationColumns + ` FROM medications`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY sort_order, name"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var out []*entity.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		out = append(out, med)
	}
	return out, rows.Err()
}

// AdjustQuantity aplica delta con un UPDATE condicional: la fila solo cambia si el
// resultado no es negativo, de modo que escrituras concurrentes no pueden sobregirar el stock.
func (r *MedicationRepo) AdjustQuantity(ctx context.Context, id string, delta int, restock *entity.RestockInfo) (*entity.Medication, error) {
	var (
		query string
		args  []any
	)
	if restock != nil {
		query = `
			UPDATE medications SET quantity = quantity + $2, updated_at = now(),
				last_restock_date = $3, last_restock_expiry = $4, last_restock_lot = $5
			WHERE id = $1 AND quantity + $2 >= 0
			RETURNING ` + medicationColumns
		args = []any{id, delta, restock.Date, restock.ExpiryDate, restock.Lot}
	} else {
		query = `
			UPDATE medications SET quantity = quantity + $2, updated_at = now()
			WHERE id = $1 AND quantity + $2 >= 0
			RETURNING ` + medicationColumns
		args = []any{id, delta}
	}

	med, err := scanMedication(r.q.QueryRow(ctx, query, args...))
	if err == nil {
		return med, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}

	// Ninguna fila: no existe o el stock no alcanza.
	var available int
	err = r.q.QueryRow(ctx, `SELECT quantity FROM medications WHERE id = $1`, id).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	return nil, &domain.StockError{MedicationID: id, Available: available, Requested: -delta}
}

// SoftDelete marca la baja; el historial no se toca.
func (r *MedicationRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE medications SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("soft delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextOrder devuelve max(sort_order)+1, incluyendo los dados de baja.
func (r *MedicationRepo) NextOrder(ctx context.Context) (int, error) {
	var next int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM medications`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next order: %w", err)
	}
	return next, nil
}

func scanMedication(row pgx.Row) (*entity.Medication, error) {
	var (
		m           entity.Medication
		restockDate *time.Time
		expiry      *time.Time
		lot         *string
	)
	err := row.Scan(
		&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.MinStock, &m.Location, &m.Order,
		&restockDate, &expiry, &lot, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	if restockDate != nil {
		m.LastRestock = &entity.RestockInfo{Date: *restockDate, ExpiryDate: expiry}
		if lot != nil {
			m.LastRestock.Lot = *lot
		}
	}
	return &m, nil
}
