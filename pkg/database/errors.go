package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeFKViolation     = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraint is non-empty the violated constraint name must match too.
func IsUniqueViolation(err error, constraint string) bool {
	return isPgError(err, codeUniqueViolation, constraint)
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error, constraint string) bool {
	return isPgError(err, codeCheckViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return isPgError(err, codeFKViolation, "")
}

func isPgError(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
