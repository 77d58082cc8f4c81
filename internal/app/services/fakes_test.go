package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/app/repositories"
	"github.com/yigit/unidwh/internal/app/sources"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

// memState is the content of the in-memory warehouse.
type memState struct {
	plans      map[string]models.StudyPlan
	lecturers  map[string]models.Lecturer
	courses    map[string]models.Course
	times      map[string]models.ExamTime
	students   map[string]models.Student
	grades     []models.Grade
	nextTimeID int64
}

func newMemState() *memState {
	return &memState{
		plans:     map[string]models.StudyPlan{},
		lecturers: map[string]models.Lecturer{},
		courses:   map[string]models.Course{},
		times:     map[string]models.ExamTime{},
		students:  map[string]models.Student{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.lecturers {
		c.lecturers[k] = v
	}
	for k, v := range s.courses {
		c.courses[k] = v
	}
	for k, v := range s.times {
		c.times[k] = v
	}
	for k, v := range s.students {
		c.students[k] = v
	}
	c.grades = append([]models.Grade(nil), s.grades...)
	c.nextTimeID = s.nextTimeID
	return c
}

// memWarehouse commits a session's copy of the state only when the session succeeds.
type memWarehouse struct {
	state    *memState
	sessions int
}

func newMemWarehouse() *memWarehouse {
	return &memWarehouse{state: newMemState()}
}

func (w *memWarehouse) WithSession(ctx context.Context, fn func(ctx context.Context, s repositories.Session) error) error {
	w.sessions++
	work := w.state.clone()
	if err := fn(ctx, &memSession{st: work}); err != nil {
		return err
	}
	w.state = work
	return nil
}

type memSession struct {
	st *memState
}

func (s *memSession) UpsertStudyPlan(_ context.Context, p *models.StudyPlan) (bool, error) {
	if _, ok := s.st.plans[p.ID]; ok {
		return false, nil
	}
	s.st.plans[p.ID] = *p
	return true, nil
}

func (s *memSession) UpsertLecturer(_ context.Context, l *models.Lecturer) (bool, error) {
	if _, ok := s.st.lecturers[l.ID]; ok {
		return false, nil
	}
	s.st.lecturers[l.ID] = *l
	return true, nil
}

func (s *memSession) UpsertCourse(_ context.Context, c *models.Course) (bool, error) {
	if _, ok := s.st.courses[c.ID]; ok {
		return false, nil
	}
	s.st.courses[c.ID] = *c
	return true, nil
}

func (s *memSession) ResolveExamTime(_ context.Context, t *models.ExamTime) (bool, error) {
	key := t.ExamDate.Format(time.DateOnly)
	if existing, ok := s.st.times[key]; ok {
		t.ID = existing.ID
		return false, nil
	}
	s.st.nextTimeID++
	t.ID = s.st.nextTimeID
	s.st.times[key] = *t
	return true, nil
}

func (s *memSession) UpsertStudent(_ context.Context, st *models.Student) (bool, error) {
	if _, ok := s.st.students[st.Matno]; ok {
		return false, nil
	}
	s.st.students[st.Matno] = *st
	return true, nil
}

func (s *memSession) AppendGrade(_ context.Context, g *models.Grade, dedupe bool) (bool, error) {
	_, okStudent := s.st.students[g.StudentID]
	_, okCourse := s.st.courses[g.CourseID]
	_, okLecturer := s.st.lecturers[g.LecturerID]
	_, okPlan := s.st.plans[g.StudyPlanID]
	if !okStudent || !okCourse || !okLecturer || !okPlan || g.TimeID == 0 {
		return false, fmt.Errorf("%w: grade references a missing dimension row", apperrors.ErrConstraint)
	}

	if dedupe {
		for _, e := range s.st.grades {
			if e.StudentID == g.StudentID && e.CourseID == g.CourseID && e.LecturerID == g.LecturerID && e.TimeID == g.TimeID {
				return false, nil
			}
		}
	}
	s.st.grades = append(s.st.grades, *g)
	return true, nil
}

// stubReportStore serves canned report data and records the executed query.
type stubReportStore struct {
	lecturers []string
	report    *models.GradeReport
	err       error

	listed bool
	ran    report.Query
}

func (s *stubReportStore) WithReportSession(ctx context.Context, fn func(ctx context.Context, s repositories.ReportSession) error) error {
	return fn(ctx, s)
}

func (s *stubReportStore) DistinctLecturerIDs(context.Context) ([]string, error) {
	s.listed = true
	return s.lecturers, nil
}

func (s *stubReportStore) RunReport(_ context.Context, q report.Query) (*models.GradeReport, error) {
	s.ran = q
	if s.err != nil {
		return nil, s.err
	}
	s.report.KeyColumns = q.KeyColumns
	s.report.Columns = q.Columns
	return s.report, nil
}

const fixtureMetadata = `{
  "name": "University of Klagenfurt",
  "bachelor_study_plans": [{"id": "033521", "name": "Informatics"}],
  "master_study_plans": [{"id": 66921, "name": "Informatics", "type": "Master", "branch": "Software Engineering"}],
  "lecturers": [
    {"id": "L1", "name": "Assoc.-Prof. Dr. Jane Doe"},
    {"id": "L2", "name": "Univ.-Prof. Dipl.-Ing. Dr. Max Mustermann", "department": "ITEC"},
    {"id": "L3", "name": "Guest Lecturer"}
  ]
}`

const fixtureCourses = `{
  "bachelor": [{"id": "C100", "title": "Algorithms", "ECTS": "6"}],
  "master": [{"id": "C200", "title": "Databases", "type": "VO", "ECTS": "tbd"}]
}`

const fixtureResultA = `{
  "date": "2021-09-15", "course": "C100", "examinator": "L1",
  "results": [
    {"matno": "S1", "name": "Anna", "studyplan": "033521", "grade": "2"},
    {"matno": "S2", "name": "Bob", "studyplan": "033521", "grade": "not graded"}
  ]
}`

const fixtureResultB = `{
  "date": 2021, "course": "C200", "examinator": "L2",
  "results": [
    {"matno": "S1", "name": "Anna", "studyplan": 66921, "grade": "failed"}
  ]
}`

// writeExport lays out an export directory and returns a reader over it.
// results maps result file names to their content.
func writeExport(t *testing.T, results map[string]string) *sources.FileReader {
	t.Helper()

	dir := t.TempDir()
	resultsDir := filepath.Join(dir, "results")
	require.NoError(t, os.MkdirAll(resultsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aau_metadata.json"), []byte(fixtureMetadata), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aau_corses.json"), []byte(fixtureCourses), 0o644))
	for name, content := range results {
		require.NoError(t, os.WriteFile(filepath.Join(resultsDir, name), []byte(content), 0o644))
	}

	return sources.NewFileReader(
		filepath.Join(dir, "aau_metadata.json"),
		filepath.Join(dir, "aau_corses.json"),
		resultsDir,
	)
}

func defaultExport(t *testing.T) *sources.FileReader {
	return writeExport(t, map[string]string{"a.json": fixtureResultA, "b.json": fixtureResultB})
}
