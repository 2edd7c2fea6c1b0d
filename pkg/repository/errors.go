package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgDuplicateKeyCode = "23505"
	pgForeignKeyCode   = "23503"
)

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows to notFoundErr and PostgreSQL unique violation (23505)
// to duplicateErr. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	if pgCode(err) == pgDuplicateKeyCode {
		return duplicateErr
	}

	return err
}

// MapReferenceError maps a foreign key violation (23503) to refErr and
// otherwise behaves like MapError. Child records use it so a write against
// a deleted parent surfaces as a domain error instead of a driver error.
func MapReferenceError(err error, notFoundErr, duplicateErr, refErr error) error {
	if pgCode(err) == pgForeignKeyCode {
		return refErr
	}
	return MapError(err, notFoundErr, duplicateErr)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
