package models

// DefaultDegree is stored when a study plan does not state its degree type.
const DefaultDegree = "Bachelor"

// StudyPlan is a curriculum a student is enrolled in, keyed by its source identifier.
type StudyPlan struct {
	ID     string  `json:"id" db:"studyplanid"`
	Title  string  `json:"title" db:"title"`
	Degree string  `json:"degree" db:"degree"`
	Branch *string `json:"branch,omitempty" db:"branch"` // Nullable
}
