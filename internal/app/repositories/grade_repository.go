package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/db"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
)

// GradeRepository handles the grades fact table
type GradeRepository struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table string
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(dbtx db.DBTX, schema string) *GradeRepository {
	return &GradeRepository{
		db:    dbtx,
		sb:    newStatementBuilder(),
		table: tableName(schema, models.TableGrades),
	}
}

// Insert appends a fact row. Facts have no natural key, so repeating the call
// stores the result twice.
func (r *GradeRepository) Insert(ctx context.Context, g *models.Grade) error {
	sql, args, err := r.sb.Insert(r.table).
		Columns("studentid", "courseid", "lecturerid", "studyplanid", "timeid", "grade").
		Values(g.StudentID, g.CourseID, g.LecturerID, g.StudyPlanID, g.TimeID, g.Grade).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert grade query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return dberrors.Classify(fmt.Errorf("error inserting grade for student %s in course %s: %w", g.StudentID, g.CourseID, err))
	}
	return nil
}

// Exists reports whether a fact with the same student, course, lecturer and time is stored.
func (r *GradeRepository) Exists(ctx context.Context, g *models.Grade) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(r.table).
		Where(squirrel.Eq{
			"studentid":  g.StudentID,
			"courseid":   g.CourseID,
			"lecturerid": g.LecturerID,
			"timeid":     g.TimeID,
		}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build grade exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, dberrors.Classify(fmt.Errorf("error checking grade existence: %w", err))
	}
	return exists, nil
}

// InsertIfAbsent appends the fact unless an equal one is already stored.
func (r *GradeRepository) InsertIfAbsent(ctx context.Context, g *models.Grade) (bool, error) {
	exists, err := r.Exists(ctx, g)
	if err != nil || exists {
		return false, err
	}
	return true, r.Insert(ctx, g)
}

// CountByStudent returns the number of facts stored for a student.
func (r *GradeRepository) CountByStudent(ctx context.Context, studentID string) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From(r.table).
		Where(squirrel.Eq{"studentid": studentID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count grades query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting grades: %w", err)
	}
	return n, nil
}
