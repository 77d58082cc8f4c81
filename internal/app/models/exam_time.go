package models

import "time"

// Semester is the coarse academic half-year an exam date falls into.
type Semester string

const (
	SemesterSummer Semester = "Summer"
	SemesterWinter Semester = "Winter"
)

// ExamTime is the time dimension row for one exam date.
// ID is the warehouse generated surrogate key.
type ExamTime struct {
	ID       int64     `json:"id" db:"timeid"`
	ExamDate time.Time `json:"examDate" db:"examdate"`
	Day      int       `json:"day" db:"day"`
	Month    int       `json:"month" db:"month"`
	Semester Semester  `json:"semester" db:"semester"`
	Year     int       `json:"year" db:"year"`
}
