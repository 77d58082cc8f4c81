package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/db"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
)

// TimeRepository handles the time dimension. Rows are keyed by exam date and carry a
// generated surrogate key.
type TimeRepository struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table string
}

// NewTimeRepository creates a new TimeRepository
func NewTimeRepository(dbtx db.DBTX, schema string) *TimeRepository {
	return &TimeRepository{
		db:    dbtx,
		sb:    newStatementBuilder(),
		table: tableName(schema, models.TableTime),
	}
}

// Resolve stores t.ID as the key of t.ExamDate. The row is created when the date is
// new; otherwise the existing key is read back in the same session.
func (r *TimeRepository) Resolve(ctx context.Context, t *models.ExamTime) (bool, error) {
	sql, args, err := r.sb.Insert(r.table).
		Columns("examdate", "day", "month", "semester", "year").
		Values(t.ExamDate, t.Day, t.Month, string(t.Semester), t.Year).
		Suffix(onConflictDoNothing("examdate") + " RETURNING timeid").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert time query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&t.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, dberrors.Classify(fmt.Errorf("error inserting time %s: %w", t.ExamDate.Format(time.DateOnly), err))
	}

	// conflict: the date is already present
	existing, err := r.GetByDate(ctx, t.ExamDate)
	if err != nil {
		return false, err
	}
	t.ID = existing.ID
	return false, nil
}

// GetByDate retrieves the time row of an exam date.
func (r *TimeRepository) GetByDate(ctx context.Context, date time.Time) (*models.ExamTime, error) {
	sql, args, err := r.sb.Select("timeid", "examdate", "day", "month", "semester", "year").
		From(r.table).
		Where(squirrel.Eq{"examdate": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get time query: %w", err)
	}

	var (
		t        models.ExamTime
		semester string
	)
	err = r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.ExamDate, &t.Day, &t.Month, &semester, &t.Year)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, dberrors.Classify(fmt.Errorf("error getting time by date: %w", err))
	}
	t.Semester = models.Semester(semester)
	return &t, nil
}
