package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
	"github.com/yigit/unidwh/internal/pkg/testutil"
)

func intPtr(v int) *int { return &v }

func seedDimensions(t *testing.T, ctx context.Context, s Session) (l1, l2 *models.Lecturer, tm *models.ExamTime) {
	t.Helper()

	_, err := s.UpsertStudyPlan(ctx, &models.StudyPlan{ID: "033521", Title: "Informatics", Degree: models.DefaultDegree})
	require.NoError(t, err)

	l1 = &models.Lecturer{ID: "L1", Name: "Jane Doe", Rank: "Assoc.-Prof.", Title: "Dr."}
	l2 = &models.Lecturer{ID: "L2", Name: "Max Mustermann", Rank: "Univ.-Prof.", Title: "Dipl.-Ing., Dr."}
	for _, l := range []*models.Lecturer{l1, l2} {
		_, err = s.UpsertLecturer(ctx, l)
		require.NoError(t, err)
	}

	_, err = s.UpsertCourse(ctx, &models.Course{ID: "C100", Title: "Algorithms", ECTS: intPtr(6), University: "AAU"})
	require.NoError(t, err)

	tm = &models.ExamTime{
		ExamDate: time.Date(2021, time.September, 15, 0, 0, 0, 0, time.UTC),
		Day:      15, Month: 9, Semester: models.SemesterWinter, Year: 2021,
	}
	_, err = s.ResolveExamTime(ctx, tm)
	require.NoError(t, err)

	for _, st := range []*models.Student{{Matno: "S1", Name: "Anna"}, {Matno: "S2", Name: "Bob"}} {
		_, err = s.UpsertStudent(ctx, st)
		require.NoError(t, err)
	}
	return l1, l2, tm
}

func TestRepositories_DimensionUpsertsAreInsertOnce(t *testing.T) {
	wh := testutil.NewWarehouse(t)
	ctx := context.Background()
	repos := NewRepositories(wh.DB.Pool, wh.Schema)

	branch := "Software Engineering"
	inserted, err := repos.UpsertStudyPlan(ctx, &models.StudyPlan{ID: "066921", Title: "Informatics", Degree: "Master", Branch: &branch})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repos.UpsertStudyPlan(ctx, &models.StudyPlan{ID: "066921", Title: "Renamed", Degree: "Master"})
	require.NoError(t, err)
	assert.False(t, inserted)

	plan, err := repos.StudyPlanRepository.GetByID(ctx, "066921")
	require.NoError(t, err)
	assert.Equal(t, "Informatics", plan.Title)
	require.NotNil(t, plan.Branch)
	assert.Equal(t, branch, *plan.Branch)

	inserted, err = repos.UpsertStudent(ctx, &models.Student{Matno: "S1", Name: "Anna"})
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = repos.UpsertStudent(ctx, &models.Student{Matno: "S1", Name: "Anna Maria"})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, int64(1), wh.CountRows(t, models.TableStudent))

	inserted, err = repos.UpsertCourse(ctx, &models.Course{ID: "C101", Title: "Seminar", University: "AAU"})
	require.NoError(t, err)
	assert.True(t, inserted)
	course, err := repos.CourseRepository.GetByID(ctx, "C101")
	require.NoError(t, err)
	assert.Nil(t, course.ECTS)

	_, err = repos.LecturerRepository.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTimeRepository_ResolveReturnsSameKey(t *testing.T) {
	wh := testutil.NewWarehouse(t)
	ctx := context.Background()
	repos := NewRepositories(wh.DB.Pool, wh.Schema)

	date := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	first := &models.ExamTime{ExamDate: date, Day: 1, Month: 1, Semester: models.SemesterSummer, Year: 2021}
	inserted, err := repos.ResolveExamTime(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, first.ID)

	second := &models.ExamTime{ExamDate: date, Day: 1, Month: 1, Semester: models.SemesterSummer, Year: 2021}
	inserted, err = repos.ResolveExamTime(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, int64(1), wh.CountRows(t, models.TableTime))

	stored, err := repos.TimeRepository.GetByDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, models.SemesterSummer, stored.Semester)
	assert.Equal(t, 2021, stored.Year)
}

func TestGradeRepository_AppendDuplicatesUnlessDeduped(t *testing.T) {
	wh := testutil.NewWarehouse(t)
	ctx := context.Background()
	repos := NewRepositories(wh.DB.Pool, wh.Schema)
	l1, _, tm := seedDimensions(t, ctx, repos)

	g := &models.Grade{StudentID: "S1", CourseID: "C100", LecturerID: l1.ID, StudyPlanID: "033521", TimeID: tm.ID, Grade: intPtr(2)}

	for i := 0; i < 2; i++ {
		inserted, err := repos.AppendGrade(ctx, g, false)
		require.NoError(t, err)
		assert.True(t, inserted)
	}
	n, err := repos.GradeRepository.CountByStudent(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	inserted, err := repos.AppendGrade(ctx, g, true)
	require.NoError(t, err)
	assert.False(t, inserted)

	g2 := *g
	g2.StudentID = "S2"
	inserted, err = repos.AppendGrade(ctx, &g2, true)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(3), wh.CountRows(t, models.TableGrades))
}

func TestGradeRepository_MissingDimensionIsConstraintError(t *testing.T) {
	wh := testutil.NewWarehouse(t)
	ctx := context.Background()
	repos := NewRepositories(wh.DB.Pool, wh.Schema)

	err := repos.GradeRepository.Insert(ctx, &models.Grade{
		StudentID: "nobody", CourseID: "C100", LecturerID: "L1", StudyPlanID: "033521", TimeID: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConstraint)
}

func TestPostgresWarehouse_RollsBackOnError(t *testing.T) {
	wh := testutil.NewWarehouse(t)
	ctx := context.Background()
	warehouse := NewPostgresWarehouse(wh.DB, wh.Schema)

	boom := errors.New("boom")
	err := warehouse.WithSession(ctx, func(ctx context.Context, s Session) error {
		seedDimensions(t, ctx, s)
		return boom
	})
	require.ErrorIs(t, err, boom)

	for _, table := range []string{models.TableStudyPlan, models.TableLecturer, models.TableCourse, models.TableTime, models.TableStudent} {
		assert.Zero(t, wh.CountRows(t, table), table)
	}
}

func TestPostgresReportStore_PivotReport(t *testing.T) {
	wh := testutil.NewWarehouse(t)
	ctx := context.Background()

	err := NewPostgresWarehouse(wh.DB, wh.Schema).WithSession(ctx, func(ctx context.Context, s Session) error {
		l1, l2, tm := seedDimensions(t, ctx, s)
		facts := []*models.Grade{
			{StudentID: "S1", CourseID: "C100", LecturerID: l1.ID, StudyPlanID: "033521", TimeID: tm.ID, Grade: intPtr(2)},
			{StudentID: "S1", CourseID: "C100", LecturerID: l1.ID, StudyPlanID: "033521", TimeID: tm.ID, Grade: intPtr(4)},
			{StudentID: "S1", CourseID: "C100", LecturerID: l2.ID, StudyPlanID: "033521", TimeID: tm.ID, Grade: intPtr(5)},
			{StudentID: "S2", CourseID: "C100", LecturerID: l1.ID, StudyPlanID: "033521", TimeID: tm.ID},
		}
		for _, g := range facts {
			if _, err := s.AppendGrade(ctx, g, false); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	store := NewPostgresReportStore(wh.DB, wh.Schema)
	var rep *models.GradeReport
	err = store.WithReportSession(ctx, func(ctx context.Context, s ReportSession) error {
		ids, err := s.DistinctLecturerIDs(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, []string{"L1", "L2"}, ids)

		q, err := NewRepositories(wh.DB.Pool, wh.Schema).ReportRepository.Builder().Pivot(ids)
		if err != nil {
			return err
		}
		rep, err = s.RunReport(ctx, q)
		return err
	})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, []string{"S1"}, rep.Rows[0].Keys)
	assert.Equal(t, []string{"S2"}, rep.Rows[1].Keys)

	v, ok := rep.Value(0, "L1_AvgGrade")
	require.True(t, ok)
	require.True(t, v.Valid)
	assert.Equal(t, "3.00", v.Decimal.StringFixed(2))

	v, _ = rep.Value(0, "L2_AvgGrade")
	assert.Equal(t, "5.00", v.Decimal.StringFixed(2))

	v, _ = rep.Value(1, "L1_AvgGrade")
	assert.False(t, v.Valid)
	v, _ = rep.Value(1, "L2_AvgGrade")
	assert.False(t, v.Valid)
}
