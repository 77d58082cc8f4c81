// Package report builds the grade-average report queries. Lecturer identifiers come
// from warehouse data, so they only ever reach the SQL text as quoted aliases; every
// compared value is a bind parameter.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/unidwh/internal/pkg/apperrors"
	"github.com/yigit/unidwh/internal/pkg/validation"
)

// Layout selects the report shape.
type Layout string

const (
	// LayoutPivot yields one row per student and one average column per lecturer.
	LayoutPivot Layout = "pivot"
	// LayoutLong yields one row per student and lecturer.
	LayoutLong Layout = "long"
)

// AvgColumnSuffix is appended to a lecturer identifier to name its average column.
const AvgColumnSuffix = "_AvgGrade"

// Column names of the fact table read by the report.
const (
	colStudent  = "studentid"
	colLecturer = "lecturerid"
	colGrade    = "grade"
)

// Query is a generated report statement together with the shape of its result.
type Query struct {
	SQL        string
	Args       []interface{}
	KeyColumns []string
	Columns    []string
}

// Builder generates report SQL against one grades table.
type Builder struct {
	sb    squirrel.StatementBuilderType
	table string
}

// NewBuilder creates a builder for the grades table in schema.
func NewBuilder(schema, gradesTable string) *Builder {
	return &Builder{
		sb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table: pgx.Identifier{schema, gradesTable}.Sanitize(),
	}
}

// DistinctLecturers returns the statement listing the lecturers present in the fact table.
func (b *Builder) DistinctLecturers() (string, []interface{}, error) {
	return b.sb.Select(colLecturer).
		Distinct().
		From(b.table).
		Where(squirrel.NotEq{colLecturer: nil}).
		OrderBy(colLecturer).
		ToSql()
}

// Pivot builds the per-student report with one rounded average column per lecturer.
// Lecturer identifiers are deduplicated and sorted so the column order is stable.
// With no lecturers the report only lists students.
func (b *Builder) Pivot(lecturerIDs []string) (Query, error) {
	ids := SortedUnique(lecturerIDs)

	q := b.sb.Select(colStudent).From(b.table).GroupBy(colStudent).OrderBy(colStudent)
	columns := make([]string, 0, len(ids))

	for _, id := range ids {
		alias := id + AvgColumnSuffix
		if !validation.IsValidIdentifier(alias) {
			return Query{}, apperrors.NewCustomError(apperrors.ErrInvalidIdentifier,
				fmt.Sprintf("lecturer %q cannot be used as a report column", id))
		}
		// "?" is the placeholder marker; a literal one inside the alias has to be doubled
		quoted := strings.ReplaceAll(pgx.Identifier{alias}.Sanitize(), "?", "??")
		expr := fmt.Sprintf("ROUND(AVG(CASE WHEN %s = ? THEN %s END), 2) AS %s", colLecturer, colGrade, quoted)
		q = q.Column(squirrel.Expr(expr, id))
		columns = append(columns, alias)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("failed to build pivot report query: %w", err)
	}

	return Query{
		SQL:        sql,
		Args:       args,
		KeyColumns: []string{colStudent},
		Columns:    columns,
	}, nil
}

// Long builds the per-student, per-lecturer average report.
func (b *Builder) Long() (Query, error) {
	sql, args, err := b.sb.Select(colStudent, colLecturer, "ROUND(AVG("+colGrade+"), 2) AS \"AvgGrade\"").
		From(b.table).
		GroupBy(colStudent, colLecturer).
		OrderBy(colStudent, colLecturer).
		ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("failed to build long report query: %w", err)
	}

	return Query{
		SQL:        sql,
		Args:       args,
		KeyColumns: []string{colStudent, colLecturer},
		Columns:    []string{"AvgGrade"},
	}, nil
}

// SortedUnique returns the distinct values of ids in lexical order.
func SortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutPivot, LayoutLong:
		return Layout(s), nil
	default:
		return "", fmt.Errorf("unknown report layout %q (want %q or %q)", s, LayoutPivot, LayoutLong)
	}
}
