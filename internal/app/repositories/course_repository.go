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

// CourseRepository handles the course dimension
type CourseRepository struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table string
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(dbtx db.DBTX, schema string) *CourseRepository {
	return &CourseRepository{
		db:    dbtx,
		sb:    newStatementBuilder(),
		table: tableName(schema, models.TableCourse),
	}
}

// Upsert inserts the course unless its ID is already present.
func (r *CourseRepository) Upsert(ctx context.Context, c *models.Course) (bool, error) {
	sql, args, err := r.sb.Insert(r.table).
		Columns("courseid", "title", "type", "ects", "department", "university").
		Values(c.ID, c.Title, c.Type, c.ECTS, c.Department, c.University).
		Suffix(onConflictDoNothing("courseid")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, dberrors.Classify(fmt.Errorf("error inserting course %s: %w", c.ID, err))
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	sql, args, err := r.sb.Select("courseid", "title", "type", "ects", "department", "university").
		From(r.table).
		Where(squirrel.Eq{"courseid": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c := &models.Course{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Title, &c.Type, &c.ECTS, &c.Department, &c.University)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return c, nil
}
