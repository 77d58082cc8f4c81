package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/yigit/unidwh/internal/app/models"
)

// Places is the number of decimals averages are rounded to.
const Places = 2

// FormatValue renders an average with two decimals, or "" when there is none.
func FormatValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(Places)
}

// RowObjects turns report rows into column name keyed objects. Missing averages are nil.
func RowObjects(rep *models.GradeReport) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rep.Rows))
	for _, row := range rep.Rows {
		obj := make(map[string]interface{}, len(rep.KeyColumns)+len(rep.Columns))
		for i, k := range rep.KeyColumns {
			if i < len(row.Keys) {
				obj[k] = row.Keys[i]
			}
		}
		for i, c := range rep.Columns {
			var v interface{}
			if i < len(row.Values) && row.Values[i].Valid {
				v = json.Number(FormatValue(row.Values[i]))
			}
			obj[c] = v
		}
		out = append(out, obj)
	}
	return out
}

// WriteTable writes the report as aligned text columns with a header line.
func WriteTable(w io.Writer, rep *models.GradeReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := append(append([]string{}, rep.KeyColumns...), rep.Columns...)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	for _, row := range rep.Rows {
		cells := append([]string{}, row.Keys...)
		for _, v := range row.Values {
			cells = append(cells, FormatValue(v))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteJSONLines writes one JSON object per report row.
func WriteJSONLines(w io.Writer, rep *models.GradeReport) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, obj := range RowObjects(rep) {
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
	return bw.Flush()
}
