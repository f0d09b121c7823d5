package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/carro-urgencias/internal/domain/repository"
)

func TestWhere(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)

	clause, args := where(repository.MovementFilter{}, 1)
	assert.Empty(t, clause)
	assert.Empty(t, args)

	clause, args = where(repository.MovementFilter{MedicationID: "a", Type: "SALIDA", From: &from, To: &to}, 1)
	assert.Equal(t, " WHERE medication_id = $1 AND type = $2 AND date >= $3 AND date <= $4", clause)
	assert.Equal(t, []any{"a", "SALIDA", from, to}, args)

	clause, _ = where(repository.MovementFilter{To: &to}, 3)
	assert.Equal(t, " WHERE date <= $3", clause)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
