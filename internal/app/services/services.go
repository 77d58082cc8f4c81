// Package services holds the two use cases of the warehouse:
// - IngestService: loads the export documents into the warehouse in one batch
// - ReportService: builds and runs the grade-average report
package services

import (
	"github.com/yigit/unidwh/internal/app/sources"
)

// SourceReader provides the export documents of one load.
type SourceReader interface {
	Metadata() (*sources.Metadata, error)
	Courses() (*sources.Courses, error)
	ResultFiles() ([]string, error)
	Result(path string) (*sources.ResultFile, error)
}

var _ SourceReader = (*sources.FileReader)(nil)
