package models

import "github.com/shopspring/decimal"

// GradeReport is a tabular report. Each row carries one value per KeyColumns entry
// followed by one averaged grade per Columns entry.
type GradeReport struct {
	KeyColumns []string    `json:"keyColumns"`
	Columns    []string    `json:"columns"`
	Rows       []ReportRow `json:"rows"`
}

// ReportRow holds key values and averaged grades in report column order.
// An invalid NullDecimal means no graded result contributed to the average.
type ReportRow struct {
	Keys   []string              `json:"keys"`
	Values []decimal.NullDecimal `json:"values"`
}

// Value returns the row value of the named average column.
func (r *GradeReport) Value(row int, column string) (decimal.NullDecimal, bool) {
	if row < 0 || row >= len(r.Rows) {
		return decimal.NullDecimal{}, false
	}
	for i, c := range r.Columns {
		if c == column && i < len(r.Rows[row].Values) {
			return r.Rows[row].Values[i], true
		}
	}
	return decimal.NullDecimal{}, false
}
