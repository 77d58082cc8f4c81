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

// StudyPlanRepository handles the studyplan dimension
type StudyPlanRepository struct {
	db    db.DBTX
	sb    squirrel.StatementBuilderType
	table string
}

// NewStudyPlanRepository creates a new StudyPlanRepository
func NewStudyPlanRepository(dbtx db.DBTX, schema string) *StudyPlanRepository {
	return &StudyPlanRepository{
		db:    dbtx,
		sb:    newStatementBuilder(),
		table: tableName(schema, models.TableStudyPlan),
	}
}

// Upsert inserts the study plan unless its ID is already present. The stored row is
// never updated.
func (r *StudyPlanRepository) Upsert(ctx context.Context, plan *models.StudyPlan) (bool, error) {
	sql, args, err := r.sb.Insert(r.table).
		Columns("studyplanid", "title", "degree", "branch").
		Values(plan.ID, plan.Title, plan.Degree, plan.Branch).
		Suffix(onConflictDoNothing("studyplanid")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert study plan query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, dberrors.Classify(fmt.Errorf("error inserting study plan %s: %w", plan.ID, err))
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID retrieves a study plan by ID
func (r *StudyPlanRepository) GetByID(ctx context.Context, id string) (*models.StudyPlan, error) {
	sql, args, err := r.sb.Select("studyplanid", "title", "degree", "branch").
		From(r.table).
		Where(squirrel.Eq{"studyplanid": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get study plan query: %w", err)
	}

	plan := &models.StudyPlan{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&plan.ID, &plan.Title, &plan.Degree, &plan.Branch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting study plan by ID: %w", err)
	}
	return plan, nil
}
