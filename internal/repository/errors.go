package repository

import (
	"errors"

	"product-catalog/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into the domain taxonomy.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translatePgError maps driver-level constraint failures onto the domain
// error taxonomy so raw pg errors never cross the repository boundary.
// Anything it does not recognize is returned unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return domain.ErrIntegrityViolation
		case pgUniqueViolation:
			return domain.ErrDuplicateKey
		}
	}
	return err
}
