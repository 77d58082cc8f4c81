// Package sources decodes the academic-record export documents consumed by the loader.
// Only the fields the warehouse needs are modelled; unknown fields are ignored.
package sources

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// FlexString accepts a JSON string, number or null. Exports are not consistent about
// quoting identifiers, years and grades, so all of them are read as text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the raw text.
func (f FlexString) String() string {
	return string(f)
}

// Metadata is the institution document with study plans and lecturers.
type Metadata struct {
	Name               string         `json:"name"`
	BachelorStudyPlans []StudyPlanDoc `json:"bachelor_study_plans" validate:"dive"`
	MasterStudyPlans   []StudyPlanDoc `json:"master_study_plans" validate:"dive"`
	Lecturers          []LecturerDoc  `json:"lecturers" validate:"dive"`
}

// StudyPlans returns bachelor plans followed by master plans.
func (m *Metadata) StudyPlans() []StudyPlanDoc {
	plans := make([]StudyPlanDoc, 0, len(m.BachelorStudyPlans)+len(m.MasterStudyPlans))
	plans = append(plans, m.BachelorStudyPlans...)
	return append(plans, m.MasterStudyPlans...)
}

type StudyPlanDoc struct {
	ID     FlexString `json:"id" validate:"required"`
	Name   string     `json:"name"`
	Type   *string    `json:"type"`
	Branch *string    `json:"branch"`
}

type LecturerDoc struct {
	ID         FlexString `json:"id" validate:"required"`
	Name       string     `json:"name"`
	Department *string    `json:"department"`
}

// Courses is the course catalogue grouped by level.
type Courses struct {
	Bachelor []CourseDoc `json:"bachelor" validate:"dive"`
	Master   []CourseDoc `json:"master" validate:"dive"`
}

// All returns bachelor courses followed by master courses.
func (c *Courses) All() []CourseDoc {
	all := make([]CourseDoc, 0, len(c.Bachelor)+len(c.Master))
	all = append(all, c.Bachelor...)
	return append(all, c.Master...)
}

type CourseDoc struct {
	ID         FlexString `json:"id" validate:"required"`
	Title      string     `json:"title"`
	Type       *string    `json:"type"`
	ECTS       FlexString `json:"ECTS"`
	Department *string    `json:"department"`
}

// ResultFile is the result list of one exam.
type ResultFile struct {
	Date       FlexString     `json:"date" validate:"required"`
	Course     FlexString     `json:"course" validate:"required"`
	Examinator FlexString     `json:"examinator" validate:"required"`
	Results    []ResultRecord `json:"results" validate:"dive"`
}

type ResultRecord struct {
	Matno     FlexString `json:"matno" validate:"required"`
	Name      string     `json:"name"`
	StudyPlan FlexString `json:"studyplan" validate:"required"`
	Grade     FlexString `json:"grade"`
}
