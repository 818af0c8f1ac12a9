package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidReference is returned when a write references a missing row.
	ErrInvalidReference = errors.New("referenced entity does not exist")

	// ErrInvalidEntity is returned when a write violates a NOT NULL or CHECK constraint.
	ErrInvalidEntity = errors.New("invalid entity")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// mapError converts gorm and driver errors into the store sentinels. gorm
// already translates the common cases when TranslateError is enabled; the
// driver checks cover connections opened without it.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %v", ErrDuplicate, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %v", ErrInvalidReference, pgErr.ConstraintName, err)
		case pgNotNullViolation, pgCheckViolation:
			return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrInvalidReference, err)
		case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: %v", ErrInvalidEntity, err)
		}
	}

	return err
}
