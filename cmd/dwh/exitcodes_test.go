package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"explicit code", withCode(exitUsage, errors.New("bad flag")), exitUsage},
		{"config", fmt.Errorf("%w: max_conns", apperrors.ErrInvalidConfig), exitUsage},
		{"source format", apperrors.NewLoadError("results", "a.json", apperrors.NewSourceFormatError("invalid exam date %q", "x")), exitValidation},
		{"unreadable", fmt.Errorf("%w: read", apperrors.ErrSourceUnreadable), exitValidation},
		{"identifier", apperrors.ErrInvalidIdentifier, exitValidation},
		{"constraint", fmt.Errorf("%w: %w", apperrors.ErrRolledBack, fmt.Errorf("%w: fk", apperrors.ErrConstraint)), exitConstraint},
		{"connectivity", fmt.Errorf("%w: dial", apperrors.ErrConnectivity), exitDB},
		{"report query", fmt.Errorf("%w: syntax", apperrors.ErrReportQuery), exitDB},
		{"postgres error", &pgconn.PgError{Code: "42P01"}, exitDB},
		{"unknown", context.Canceled, exitUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestReportCmd_RejectsBadFlagsBeforeConnecting(t *testing.T) {
	for _, args := range [][]string{
		{"report", "--layout", "wide"},
		{"report", "--format", "csv"},
	} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		err := cmd.Execute()
		assert.Equal(t, exitUsage, exitCode(err), args)
	}
}
