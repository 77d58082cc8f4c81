package models

import (
	"time"

	"github.com/google/uuid"
)

// LoadState is the lifecycle state of one ingestion batch.
type LoadState string

const (
	LoadIdle            LoadState = "idle"
	LoadTransactionOpen LoadState = "transaction_open"
	LoadCommitted       LoadState = "committed"
	LoadRolledBack      LoadState = "rolled_back"
	LoadClosed          LoadState = "closed"
)

// Table names used as counter keys in LoadSummary.
const (
	TableStudyPlan = "studyplan"
	TableLecturer  = "lecturer"
	TableCourse    = "course"
	TableTime      = "time"
	TableStudent   = "student"
	TableGrades    = "grades"
)

// WriteCounts counts rows written and rows skipped because they already existed.
type WriteCounts struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// LoadSummary describes one ingestion run.
type LoadSummary struct {
	RunID       uuid.UUID              `json:"runId"`
	StartedAt   time.Time              `json:"startedAt"`
	Duration    time.Duration          `json:"duration"`
	State       LoadState              `json:"state"`
	Outcome     LoadState              `json:"outcome"` // Committed or RolledBack
	ResultFiles int                    `json:"resultFiles"`
	Tables      map[string]WriteCounts `json:"tables"`
}

// NewLoadSummary starts an idle summary for a fresh run.
func NewLoadSummary(startedAt time.Time) *LoadSummary {
	return &LoadSummary{
		RunID:     uuid.New(),
		StartedAt: startedAt,
		State:     LoadIdle,
		Tables:    map[string]WriteCounts{},
	}
}

// Count records one write against table.
func (s *LoadSummary) Count(table string, inserted bool) {
	c := s.Tables[table]
	if inserted {
		c.Inserted++
	} else {
		c.Skipped++
	}
	s.Tables[table] = c
}
