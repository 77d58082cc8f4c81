package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

func newReportService(store *stubReportStore) *ReportService {
	return NewReportService(store, report.NewBuilder("aau_dwh", models.TableGrades), 0, zerolog.Nop(), nil)
}

func TestReportService_GeneratePivot(t *testing.T) {
	store := &stubReportStore{
		lecturers: []string{"L2", "L1"},
		report: &models.GradeReport{Rows: []models.ReportRow{{
			Keys:   []string{"S1"},
			Values: []decimal.NullDecimal{{Decimal: decimal.RequireFromString("3.00"), Valid: true}, {}},
		}}},
	}

	res, err := newReportService(store).Generate(context.Background(), report.LayoutPivot)
	require.NoError(t, err)

	assert.True(t, store.listed)
	assert.Equal(t, report.LayoutPivot, res.Layout)
	assert.Equal(t, []string{"L1_AvgGrade", "L2_AvgGrade"}, res.Query.Columns)
	assert.Equal(t, []interface{}{"L1", "L2"}, store.ran.Args)
	v, ok := res.Report.Value(0, "L1_AvgGrade")
	require.True(t, ok)
	assert.Equal(t, "3.00", v.Decimal.StringFixed(2))
}

func TestReportService_GenerateLong(t *testing.T) {
	store := &stubReportStore{report: &models.GradeReport{}}

	res, err := newReportService(store).Generate(context.Background(), report.LayoutLong)
	require.NoError(t, err)

	assert.False(t, store.listed)
	assert.Equal(t, []string{"studentid", "lecturerid"}, res.Query.KeyColumns)
}

func TestReportService_NoLecturers(t *testing.T) {
	store := &stubReportStore{report: &models.GradeReport{}}

	res, err := newReportService(store).Generate(context.Background(), report.LayoutPivot)
	require.NoError(t, err)
	assert.Empty(t, res.Query.Columns)
	assert.Equal(t, []string{"studentid"}, res.Query.KeyColumns)
}

func TestReportService_Errors(t *testing.T) {
	t.Run("invalid lecturer identifier", func(t *testing.T) {
		store := &stubReportStore{lecturers: []string{"L1\x00"}, report: &models.GradeReport{}}
		_, err := newReportService(store).Generate(context.Background(), report.LayoutPivot)
		assert.ErrorIs(t, err, apperrors.ErrInvalidIdentifier)
		assert.Empty(t, store.ran.SQL)
	})

	t.Run("query failure", func(t *testing.T) {
		boom := errors.New("boom")
		store := &stubReportStore{lecturers: []string{"L1"}, err: boom}
		_, err := newReportService(store).Generate(context.Background(), report.LayoutPivot)
		assert.ErrorIs(t, err, boom)
	})
}
