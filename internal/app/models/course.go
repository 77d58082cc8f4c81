package models

// Course represents a course offered by the institution.
type Course struct {
	ID         string  `json:"id" db:"courseid"`
	Title      string  `json:"title" db:"title"`
	Type       *string `json:"type,omitempty" db:"type"`
	ECTS       *int    `json:"ects,omitempty" db:"ects"` // Nullable, non-numeric source values are dropped
	Department *string `json:"department,omitempty" db:"department"`
	University string  `json:"university" db:"university"`
}
