package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/db"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
)

// StudentRepository handles the student dimension
type StudentRepository struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table string
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(dbtx db.DBTX, schema string) *StudentRepository {
	return &StudentRepository{
		db:    dbtx,
		sb:    newStatementBuilder(),
		table: tableName(schema, models.TableStudent),
	}
}

// Upsert inserts the student unless the matriculation number is already present.
// A later record with a different name does not change the stored name.
func (r *StudentRepository) Upsert(ctx context.Context, s *models.Student) (bool, error) {
	sql, args, err := r.sb.Insert(r.table).
		Columns("matno", "name").
		Values(s.Matno, s.Name).
		Suffix(onConflictDoNothing("matno")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, dberrors.Classify(fmt.Errorf("error inserting student %s: %w", s.Matno, err))
	}
	return tag.RowsAffected() == 1, nil
}

// Count returns the number of stored students.
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From(r.table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}
