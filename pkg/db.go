package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// postgres SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation = "23505"
	pgCodeUndefinedTable  = "42P01"
)

// IsUniqueViolationError reports whether err wraps a postgres unique constraint violation.
func IsUniqueViolationError(err error) bool {
	return pgErrorCode(err) == pgCodeUniqueViolation
}

// IsUndefinedTableError reports whether err wraps a postgres "relation does not exist" error.
func IsUndefinedTableError(err error) bool {
	return pgErrorCode(err) == pgCodeUndefinedTable
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return ""
	}
	return pgErr.Code
}
