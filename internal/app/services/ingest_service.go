package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/normalize"
	"github.com/yigit/unidwh/internal/app/repositories"
	"github.com/yigit/unidwh/internal/app/sources"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
	"github.com/yigit/unidwh/internal/pkg/dberrors"
	"github.com/yigit/unidwh/internal/pkg/helpers"
	"github.com/yigit/unidwh/internal/pkg/metrics"
)

// Load stages, reported in LoadError.Stage
const (
	StageStudyPlans = "study_plans"
	StageLecturers  = "lecturers"
	StageCourses    = "courses"
	StageResults    = "results"
)

// IngestOptions tunes a load.
type IngestOptions struct {
	// DedupeGrades skips a fact when one with the same student, course, lecturer and
	// exam date is already stored.
	DedupeGrades bool
	// Timeout bounds the whole batch; zero means no limit beyond the caller's context.
	Timeout time.Duration
}

// IngestService loads the export documents into the warehouse. Each call to Load is
// one all-or-nothing batch.
type IngestService struct {
	warehouse repositories.Warehouse
	source    SourceReader
	names     *normalize.NameParser
	opts      IngestOptions
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewIngestService creates a new ingest service
func NewIngestService(
	warehouse repositories.Warehouse,
	source SourceReader,
	names *normalize.NameParser,
	opts IngestOptions,
	lgr zerolog.Logger,
	m *metrics.Metrics,
) *IngestService {
	return &IngestService{
		warehouse: warehouse,
		source:    source,
		names:     names,
		opts:      opts,
		logger:    lgr,
		metrics:   m,
		now:       time.Now,
	}
}

// Load runs one batch: study plans, lecturers and courses, then every result file in
// file name order. All writes share one transaction; any error undoes the whole batch.
// The returned summary is never nil and ends in the Closed state.
func (s *IngestService) Load(ctx context.Context) (*models.LoadSummary, error) {
	summary := models.NewLoadSummary(s.now())
	log := s.logger.With().Str("run_id", summary.RunID.String()).Logger()

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	log.Info().Bool("dedupe_grades", s.opts.DedupeGrades).Msg("Starting load")

	err := s.warehouse.WithSession(ctx, func(ctx context.Context, session repositories.Session) error {
		summary.State = models.LoadTransactionOpen
		return s.load(ctx, session, summary, log)
	})

	if err != nil {
		summary.State = models.LoadRolledBack
		err = fmt.Errorf("%w: %w", apperrors.ErrRolledBack, dberrors.Classify(err))
	} else {
		summary.State = models.LoadCommitted
	}
	summary.Outcome = summary.State
	summary.Duration = s.now().Sub(summary.StartedAt)
	summary.State = models.LoadClosed

	s.metrics.ObserveLoad(summary)

	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}
	event.Str("outcome", string(summary.Outcome)).
		Int("result_files", summary.ResultFiles).
		Dur("duration", summary.Duration).
		Interface("tables", summary.Tables).
		Msg("Load finished")

	return summary, err
}

func (s *IngestService) load(ctx context.Context, session repositories.Session, summary *models.LoadSummary, log zerolog.Logger) error {
	meta, err := s.source.Metadata()
	if err != nil {
		return apperrors.NewLoadError(StageStudyPlans, "", err)
	}
	if err := s.loadStudyPlans(ctx, session, meta, summary); err != nil {
		return err
	}
	if err := s.loadLecturers(ctx, session, meta, summary, log); err != nil {
		return err
	}

	courses, err := s.source.Courses()
	if err != nil {
		return apperrors.NewLoadError(StageCourses, "", err)
	}
	if err := s.loadCourses(ctx, session, courses, meta.Name, summary); err != nil {
		return err
	}

	files, err := s.source.ResultFiles()
	if err != nil {
		return apperrors.NewLoadError(StageResults, "", err)
	}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return apperrors.NewLoadError(StageResults, path, err)
		}
		if err := s.loadResultFile(ctx, session, path, summary, log); err != nil {
			return apperrors.NewLoadError(StageResults, path, err)
		}
		summary.ResultFiles++
	}
	return nil
}

func (s *IngestService) loadStudyPlans(ctx context.Context, session repositories.Session, meta *sources.Metadata, summary *models.LoadSummary) error {
	for _, doc := range meta.StudyPlans() {
		plan := &models.StudyPlan{
			ID:     doc.ID.String(),
			Title:  doc.Name,
			Degree: helpers.StringOrDefault(doc.Type, models.DefaultDegree),
			Branch: helpers.NullableString(doc.Branch),
		}

		inserted, err := session.UpsertStudyPlan(ctx, plan)
		if err != nil {
			return apperrors.NewLoadError(StageStudyPlans, plan.ID, err)
		}
		summary.Count(models.TableStudyPlan, inserted)
	}
	return nil
}

func (s *IngestService) loadLecturers(ctx context.Context, session repositories.Session, meta *sources.Metadata, summary *models.LoadSummary, log zerolog.Logger) error {
	for _, doc := range meta.Lecturers {
		parsed := s.names.Parse(doc.Name)
		if !parsed.HasName() {
			log.Warn().
				Str("lecturer_id", doc.ID.String()).
				Str("raw_name", doc.Name).
				Msg("Lecturer name has no recognized title, storing it as rank")
		}

		lecturer := &models.Lecturer{
			ID:         doc.ID.String(),
			Name:       parsed.Name,
			Rank:       parsed.Rank,
			Title:      parsed.Titles,
			Department: helpers.NullableString(doc.Department),
		}
		inserted, err := session.UpsertLecturer(ctx, lecturer)
		if err != nil {
			return apperrors.NewLoadError(StageLecturers, lecturer.ID, err)
		}
		summary.Count(models.TableLecturer, inserted)
	}
	return nil
}

func (s *IngestService) loadCourses(ctx context.Context, session repositories.Session, courses *sources.Courses, university string, summary *models.LoadSummary) error {
	for _, doc := range courses.All() {
		course := &models.Course{
			ID:         doc.ID.String(),
			Title:      doc.Title,
			Type:       helpers.NullableString(doc.Type),
			ECTS:       normalize.ECTS(doc.ECTS.String()),
			Department: helpers.NullableString(doc.Department),
			University: university,
		}
		inserted, err := session.UpsertCourse(ctx, course)
		if err != nil {
			return apperrors.NewLoadError(StageCourses, course.ID, err)
		}
		summary.Count(models.TableCourse, inserted)
	}
	return nil
}

func (s *IngestService) loadResultFile(ctx context.Context, session repositories.Session, path string, summary *models.LoadSummary, log zerolog.Logger) error {
	doc, err := s.source.Result(path)
	if err != nil {
		return err
	}

	date, err := normalize.DeriveExamDate(doc.Date.String())
	if err != nil {
		return err
	}
	examTime := date.ExamTime()
	inserted, err := session.ResolveExamTime(ctx, &examTime)
	if err != nil {
		return err
	}
	summary.Count(models.TableTime, inserted)

	for _, rec := range doc.Results {
		student := &models.Student{Matno: rec.Matno.String(), Name: rec.Name}
		inserted, err := session.UpsertStudent(ctx, student)
		if err != nil {
			return err
		}
		summary.Count(models.TableStudent, inserted)

		grade := &models.Grade{
			StudentID:   student.Matno,
			CourseID:    doc.Course.String(),
			LecturerID:  doc.Examinator.String(),
			StudyPlanID: rec.StudyPlan.String(),
			TimeID:      examTime.ID,
			Grade:       normalize.Grade(rec.Grade.String()),
		}
		inserted, err = session.AppendGrade(ctx, grade, s.opts.DedupeGrades)
		if err != nil {
			return err
		}
		summary.Count(models.TableGrades, inserted)
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Str("exam_date", date.String()).
		Int("records", len(doc.Results)).
		Msg("Result file loaded")
	return nil
}
