package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/newsdesk/internal/store"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

type pgMapping struct {
	target error
	label  string
	detail func(*pgconn.PgError) string
}

var pgMappings = map[string]pgMapping{
	codeUniqueViolation: {target: store.ErrDuplicate},
	codeForeignKeyViolation: {
		target: store.ErrInvalidReference,
		label:  "foreign key violation",
		detail: func(e *pgconn.PgError) string { return e.ConstraintName },
	},
	codeCheckViolation: {
		target: store.ErrInvalidEntity,
		label:  "check constraint violation",
		detail: func(e *pgconn.PgError) string { return e.ConstraintName },
	},
	codeNotNullViolation: {
		target: store.ErrInvalidEntity,
		label:  "not null violation",
		detail: func(e *pgconn.PgError) string { return e.ColumnName },
	},
}

// MapError translates driver errors into store errors. The original error
// stays in the message; unknown errors are returned as is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	code, pgErr := pgCode(err)
	m, ok := pgMappings[code]
	if !ok {
		return err
	}
	if m.detail == nil {
		return fmt.Errorf("%w: %v", m.target, err)
	}
	return fmt.Errorf("%w: %s (%s): %v", m.target, m.label, m.detail(pgErr), err)
}

func pgCode(err error) (string, *pgconn.PgError) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr
	}
	return "", nil
}

func IsUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// CheckRowsAffected reports notFound (store.ErrNotFound when nil) for a
// statement that touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("check rows affected: nil result")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}
