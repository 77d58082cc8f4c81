package models

// Student is keyed by matriculation number, which never changes.
type Student struct {
	Matno string `json:"matno" db:"matno"`
	Name  string `json:"name" db:"name"`
}
