package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsConstraintViolation checks if the error is a unique violation for a
// specific named constraint.
func IsConstraintViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
}
