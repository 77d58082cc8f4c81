package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/app/repositories"
	"github.com/yigit/unidwh/internal/pkg/metrics"
)

// ReportResult is a generated report with the statement that produced it.
type ReportResult struct {
	Layout report.Layout
	Query  report.Query
	Report *models.GradeReport
}

// ReportService generates grade-average reports from the warehouse. It only reads.
type ReportService struct {
	store   repositories.ReportStore
	builder *report.Builder
	timeout time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewReportService creates a new report service
func NewReportService(store repositories.ReportStore, builder *report.Builder, timeout time.Duration, lgr zerolog.Logger, m *metrics.Metrics) *ReportService {
	return &ReportService{
		store:   store,
		builder: builder,
		timeout: timeout,
		logger:  lgr,
		metrics: m,
	}
}

// Generate builds and runs the report in one read-only snapshot, so the lecturer
// columns always match the rows they are computed from.
func (s *ReportService) Generate(ctx context.Context, layout report.Layout) (*ReportResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	result := &ReportResult{Layout: layout}

	err := s.store.WithReportSession(ctx, func(ctx context.Context, session repositories.ReportSession) error {
		var err error
		switch layout {
		case report.LayoutLong:
			result.Query, err = s.builder.Long()
		default:
			result.Layout = report.LayoutPivot
			var ids []string
			if ids, err = session.DistinctLecturerIDs(ctx); err != nil {
				return err
			}
			result.Query, err = s.builder.Pivot(ids)
		}
		if err != nil {
			return err
		}

		s.logger.Debug().Str("layout", string(result.Layout)).Str("sql", result.Query.SQL).Msg("Running report query")
		result.Report, err = session.RunReport(ctx, result.Query)
		return err
	})

	rows := 0
	if err == nil {
		rows = len(result.Report.Rows)
	}
	s.metrics.ObserveReport(string(result.Layout), time.Since(started), rows, err)

	if err != nil {
		s.logger.Error().Err(err).Str("layout", string(result.Layout)).Msg("Report generation failed")
		return nil, err
	}

	s.logger.Info().
		Str("layout", string(result.Layout)).
		Int("columns", len(result.Query.Columns)).
		Int("rows", rows).
		Msg("Report generated")
	return result, nil
}
