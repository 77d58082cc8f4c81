package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/db"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

// Session is the write surface of one load batch. Every call runs in the batch
// transaction; the bool results report whether a new row was written.
type Session interface {
	UpsertStudyPlan(ctx context.Context, plan *models.StudyPlan) (bool, error)
	UpsertLecturer(ctx context.Context, lecturer *models.Lecturer) (bool, error)
	UpsertCourse(ctx context.Context, course *models.Course) (bool, error)
	// ResolveExamTime sets t.ID to the surrogate key of t.ExamDate, creating the row if needed.
	ResolveExamTime(ctx context.Context, t *models.ExamTime) (bool, error)
	UpsertStudent(ctx context.Context, student *models.Student) (bool, error)
	AppendGrade(ctx context.Context, grade *models.Grade, dedupe bool) (bool, error)
}

// Warehouse opens load sessions. The session's writes are committed when fn returns
// nil and rolled back otherwise.
type Warehouse interface {
	WithSession(ctx context.Context, fn func(ctx context.Context, s Session) error) error
}

// ReportSession is the read surface used by reporting.
type ReportSession interface {
	DistinctLecturerIDs(ctx context.Context) ([]string, error)
	RunReport(ctx context.Context, q report.Query) (*models.GradeReport, error)
}

// ReportStore opens read-only report sessions over a single snapshot.
type ReportStore interface {
	WithReportSession(ctx context.Context, fn func(ctx context.Context, s ReportSession) error) error
}

// Repositories holds all the repository instances bound to one query handle.
type Repositories struct {
	StudyPlanRepository *StudyPlanRepository
	LecturerRepository  *LecturerRepository
	CourseRepository    *CourseRepository
	TimeRepository      *TimeRepository
	StudentRepository   *StudentRepository
	GradeRepository     *GradeRepository
	ReportRepository    *ReportRepository
}

// NewRepositories initializes all repositories against the tables of schema.
func NewRepositories(dbtx db.DBTX, schema string) *Repositories {
	return &Repositories{
		StudyPlanRepository: NewStudyPlanRepository(dbtx, schema),
		LecturerRepository:  NewLecturerRepository(dbtx, schema),
		CourseRepository:    NewCourseRepository(dbtx, schema),
		TimeRepository:      NewTimeRepository(dbtx, schema),
		StudentRepository:   NewStudentRepository(dbtx, schema),
		GradeRepository:     NewGradeRepository(dbtx, schema),
		ReportRepository:    NewReportRepository(dbtx, schema),
	}
}

func (r *Repositories) UpsertStudyPlan(ctx context.Context, plan *models.StudyPlan) (bool, error) {
	return r.StudyPlanRepository.Upsert(ctx, plan)
}

func (r *Repositories) UpsertLecturer(ctx context.Context, lecturer *models.Lecturer) (bool, error) {
	return r.LecturerRepository.Upsert(ctx, lecturer)
}

func (r *Repositories) UpsertCourse(ctx context.Context, course *models.Course) (bool, error) {
	return r.CourseRepository.Upsert(ctx, course)
}

func (r *Repositories) ResolveExamTime(ctx context.Context, t *models.ExamTime) (bool, error) {
	return r.TimeRepository.Resolve(ctx, t)
}

func (r *Repositories) UpsertStudent(ctx context.Context, student *models.Student) (bool, error) {
	return r.StudentRepository.Upsert(ctx, student)
}

func (r *Repositories) AppendGrade(ctx context.Context, grade *models.Grade, dedupe bool) (bool, error) {
	if dedupe {
		return r.GradeRepository.InsertIfAbsent(ctx, grade)
	}
	return true, r.GradeRepository.Insert(ctx, grade)
}

func (r *Repositories) DistinctLecturerIDs(ctx context.Context) ([]string, error) {
	return r.ReportRepository.DistinctLecturerIDs(ctx)
}

func (r *Repositories) RunReport(ctx context.Context, q report.Query) (*models.GradeReport, error) {
	return r.ReportRepository.Run(ctx, q)
}

// PostgresWarehouse runs load sessions in one read-write transaction each.
type PostgresWarehouse struct {
	db     *db.PostgresDB
	schema string
}

// NewPostgresWarehouse creates a Warehouse over the given pool.
func NewPostgresWarehouse(pg *db.PostgresDB, schema string) *PostgresWarehouse {
	return &PostgresWarehouse{db: pg, schema: schema}
}

// WithSession implements Warehouse.
func (w *PostgresWarehouse) WithSession(ctx context.Context, fn func(ctx context.Context, s Session) error) error {
	return w.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx, w.schema))
	})
}

// PostgresReportStore runs report sessions in read-only repeatable-read transactions.
type PostgresReportStore struct {
	db     *db.PostgresDB
	schema string
}

// NewPostgresReportStore creates a ReportStore over the given pool.
func NewPostgresReportStore(pg *db.PostgresDB, schema string) *PostgresReportStore {
	return &PostgresReportStore{db: pg, schema: schema}
}

// WithReportSession implements ReportStore.
func (s *PostgresReportStore) WithReportSession(ctx context.Context, fn func(ctx context.Context, s ReportSession) error) error {
	return s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewRepositories(tx, s.schema))
	})
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func tableName(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

// onConflictDoNothing is the suffix of every insert-once dimension write.
func onConflictDoNothing(key string) string {
	return "ON CONFLICT (" + key + ") DO NOTHING"
}
