package models

// Lecturer is an examiner. Name, Rank and Title are decomposed from the raw source name.
type Lecturer struct {
	ID         string  `json:"id" db:"lecturerid"`
	Name       string  `json:"name" db:"name"`
	Rank       string  `json:"rank" db:"rank"`
	Title      string  `json:"title" db:"title"` // comma-joined academic titles
	Department *string `json:"department,omitempty" db:"department"`
}
