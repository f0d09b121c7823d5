package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/carro-urgencias/internal/domain"
	"github.com/jhoicas/carro-urgencias/internal/domain/entity"
	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo historial append-only sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega un movimiento al historial.
func (r *MovementRepo) Create(ctx context.Context, mov *entity.Movement) error {
	query := `
		INSERT INTO movements (id, medication_id, type, quantity, date, shift, expiry_date, notes, operator, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		mov.ID, mov.MedicationID, mov.Type, mov.Quantity, mov.Date, mov.Shift,
		mov.ExpiryDate, mov.Notes, mov.Operator, mov.RecordedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// where arma la cláusula WHERE del filtro; start es el primer índice de parámetro libre.
func where(f repository.MovementFilter, start int) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, start+len(args)-1))
	}
	if f.MedicationID != "" {
		add("medication_id = $%d", f.MedicationID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	clause, args := where(filter, 1)
	query := `
		SELECT id, medication_id, type, quantity, date, shift, expiry_date, notes, operator, recorded_at
		FROM movements` + clause + ` ORDER BY date DESC, recorded_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.MedicationID, &m.Type, &m.Quantity, &m.Date, &m.Shift,
			&m.ExpiryDate, &m.Notes, &m.Operator, &m.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *MovementRepo) Count(ctx context.Context, filter repository.MovementFilter) (int, error) {
	clause, args := where(filter, 1)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements`+clause, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) SumDispensed(ctx context.Context, from, to time.Time, limit int) ([]repository.DispensedTotal, error) {
	query := `
		SELECT medication_id, SUM(quantity)::int AS total, COUNT(*)::int AS frequency
		FROM movements
		WHERE type = $1 AND date >= $2 AND date <= $3
		GROUP BY medication_id
		ORDER BY total DESC, medication_id ASC`
	args := []any{entity.MovementTypeOUT, from, to}
	if limit > 0 {
		query += " LIMIT $4"
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum dispensed: %w", err)
	}
	defer rows.Close()

	var out []repository.DispensedTotal
	for rows.Next() {
		var t repository.DispensedTotal
		if err := rows.Scan(&t.MedicationID, &t.Total, &t.Frequency); err != nil {
			return nil, fmt.Errorf("scan dispensed: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
