package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared in migrations/001_init.sql
const (
	ConstraintCompanyName                 = "companies_name_key"
	ConstraintCompanyEmail                = "companies_email_key"
	ConstraintStudentIdentificationNumber = "students_identification_number_key"
)

const uniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports whether err is any unique violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
