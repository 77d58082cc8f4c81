package dberrors

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes and classes used by the loader.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	NotNullViolation    = "23502"

	integrityClass  = "23"
	connectionClass = "08"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == ForeignKeyViolation
}

// IsConstraintError reports whether err belongs to the integrity constraint class.
func IsConstraintError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, integrityClass)
}

// IsConnectivityError reports whether err means the warehouse could not be reached.
func IsConnectivityError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, connectionClass)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify tags a database error with the matching apperrors category while keeping
// the driver error reachable through errors.As.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, apperrors.ErrConstraint, apperrors.ErrConnectivity):
		return err
	case IsConstraintError(err):
		return fmt.Errorf("%w: %w", apperrors.ErrConstraint, err)
	case IsConnectivityError(err):
		return fmt.Errorf("%w: %w", apperrors.ErrConnectivity, err)
	default:
		return err
	}
}
