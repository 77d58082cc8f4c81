package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/db"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
)

// LecturerRepository handles the lecturer dimension
type LecturerRepository struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table string
}

// NewLecturerRepository creates a new LecturerRepository
func NewLecturerRepository(dbtx db.DBTX, schema string) *LecturerRepository {
	return &LecturerRepository{
		db:    dbtx,
		sb:    newStatementBuilder(),
		table: tableName(schema, models.TableLecturer),
	}
}

// Upsert inserts the lecturer unless its ID is already present.
func (r *LecturerRepository) Upsert(ctx context.Context, l *models.Lecturer) (bool, error) {
	sql, args, err := r.sb.Insert(r.table).
		Columns("lecturerid", "name", "rank", "title", "department").
		Values(l.ID, l.Name, l.Rank, l.Title, l.Department).
		Suffix(onConflictDoNothing("lecturerid")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert lecturer query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, dberrors.Classify(fmt.Errorf("error inserting lecturer %s: %w", l.ID, err))
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID retrieves a lecturer by ID
func (r *LecturerRepository) GetByID(ctx context.Context, id string) (*models.Lecturer, error) {
	sql, args, err := r.sb.Select("lecturerid", "name", "rank", "title", "department").
		From(r.table).
		Where(squirrel.Eq{"lecturerid": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lecturer query: %w", err)
	}

	l := &models.Lecturer{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.Name, &l.Rank, &l.Title, &l.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting lecturer by ID: %w", err)
	}
	return l, nil
}
