package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/unidwh/internal/app/models"
	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

// lastSummerMonth closes the summer semester; later months belong to the winter semester.
const lastSummerMonth = 6

// ExamDate is a normalized exam date with its derived calendar attributes.
type ExamDate struct {
	Date     time.Time
	Year     int
	Month    int
	Day      int
	Semester models.Semester
}

// DeriveExamDate accepts "YYYY-MM-DD" or a bare "YYYY" (read as January 1st) and
// derives the semester from the month.
func DeriveExamDate(raw string) (ExamDate, error) {
	value := strings.TrimSpace(raw)
	if !strings.Contains(value, "-") {
		value += "-01-01"
	}

	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return ExamDate{}, apperrors.NewSourceFormatError("invalid exam date %q", raw)
	}

	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ExamDate{}, apperrors.NewSourceFormatError("invalid exam date %q: %v", raw, err)
		}
		ymd[i] = n
	}
	year, month, day := ymd[0], ymd[1], ymd[2]

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return ExamDate{}, apperrors.NewSourceFormatError("invalid exam date %q: no such calendar day", raw)
	}

	return ExamDate{
		Date:     date,
		Year:     year,
		Month:    month,
		Day:      day,
		Semester: SemesterOf(month),
	}, nil
}

// SemesterOf maps a month (1-12) onto the academic semester.
func SemesterOf(month int) models.Semester {
	if month <= lastSummerMonth {
		return models.SemesterSummer
	}
	return models.SemesterWinter
}

// ExamTime converts the derived date into a time dimension row without a key.
func (d ExamDate) ExamTime() models.ExamTime {
	return models.ExamTime{
		ExamDate: d.Date,
		Day:      d.Day,
		Month:    d.Month,
		Semester: d.Semester,
		Year:     d.Year,
	}
}

// String formats the date the way it is stored.
func (d ExamDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
