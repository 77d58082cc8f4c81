package main

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitUnknown    = 1
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitConstraint = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return classify(err)
}

// classify maps an untagged command error onto an exit code.
func classify(err error) int {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, apperrors.ErrInvalidConfig):
		return exitUsage
	case apperrors.Is(err, apperrors.ErrSourceFormat, apperrors.ErrSourceUnreadable, apperrors.ErrInvalidIdentifier):
		return exitValidation
	case errors.Is(err, apperrors.ErrConstraint):
		return exitConstraint
	case apperrors.Is(err, apperrors.ErrConnectivity, apperrors.ErrReportQuery), errors.As(err, &pgErr):
		return exitDB
	default:
		return exitUnknown
	}
}
