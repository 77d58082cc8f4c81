package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/db"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
)

// ReportRepository executes generated report queries against the fact table
type ReportRepository struct {
	db      db.DBTX
	builder *report.Builder
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(dbtx db.DBTX, schema string) *ReportRepository {
	return &ReportRepository{
		db:      dbtx,
		builder: report.NewBuilder(schema, models.TableGrades),
	}
}

// Builder returns the query builder bound to this repository's schema.
func (r *ReportRepository) Builder() *report.Builder {
	return r.builder
}

// DistinctLecturerIDs lists the lecturers referenced by at least one fact, sorted.
func (r *ReportRepository) DistinctLecturerIDs(ctx context.Context) ([]string, error) {
	sql, args, err := r.builder.DistinctLecturers()
	if err != nil {
		return nil, fmt.Errorf("failed to build distinct lecturers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, reportError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, reportError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, reportError(err)
	}
	return ids, nil
}

// Run executes q and collects its rows. Key columns are read as text and every other
// column as a nullable decimal.
func (r *ReportRepository) Run(ctx context.Context, q report.Query) (*models.GradeReport, error) {
	rows, err := r.db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, reportError(err)
	}
	defer rows.Close()

	out := &models.GradeReport{
		KeyColumns: q.KeyColumns,
		Columns:    q.Columns,
		Rows:       []models.ReportRow{},
	}

	nKeys := len(q.KeyColumns)
	for rows.Next() {
		row := models.ReportRow{
			Keys:   make([]string, nKeys),
			Values: make([]decimal.NullDecimal, len(q.Columns)),
		}
		dest := make([]interface{}, 0, nKeys+len(q.Columns))
		for i := range row.Keys {
			dest = append(dest, &row.Keys[i])
		}
		for i := range row.Values {
			dest = append(dest, &row.Values[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, reportError(err)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, reportError(err)
	}
	return out, nil
}

func reportError(err error) error {
	return dberrors.Classify(fmt.Errorf("%w: %w", apperrors.ErrReportQuery, err))
}
