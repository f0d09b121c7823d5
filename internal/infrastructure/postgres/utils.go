package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeUniqueViolation SQLSTATE de unique_violation (índice de nombre activo, PK de movimiento).
const codeUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
