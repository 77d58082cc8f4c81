package sources

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/yigit/unidwh/internal/pkg/apperrors"
	"github.com/yigit/unidwh/internal/pkg/validation"
)

// FileReader reads the export documents from the local file system.
type FileReader struct {
	MetadataPath string
	CoursesPath  string
	ResultsDir   string
}

// NewFileReader creates a FileReader for the given document locations.
func NewFileReader(metadataPath, coursesPath, resultsDir string) *FileReader {
	return &FileReader{
		MetadataPath: metadataPath,
		CoursesPath:  coursesPath,
		ResultsDir:   resultsDir,
	}
}

// Metadata reads the institution metadata document.
func (r *FileReader) Metadata() (*Metadata, error) {
	var doc Metadata
	if err := readJSONFile(r.MetadataPath, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Courses reads the course catalogue.
func (r *FileReader) Courses() (*Courses, error) {
	var doc Courses
	if err := readJSONFile(r.CoursesPath, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ResultFiles lists the result documents in lexical file name order.
// Only regular *.json files are considered; hidden files are skipped.
func (r *FileReader) ResultFiles() ([]string, error) {
	entries, err := os.ReadDir(r.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read results directory %s: %w", apperrors.ErrSourceUnreadable, r.ResultsDir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".json") {
			continue
		}
		files = append(files, filepath.Join(r.ResultsDir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Result reads one result document.
func (r *FileReader) Result(path string) (*ResultFile, error) {
	var doc ResultFile
	if err := readJSONFile(path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func readJSONFile(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", apperrors.ErrSourceUnreadable, path, err)
	}

	if err := json.NewDecoder(bytes.NewReader(b)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", apperrors.ErrSourceFormat, path, err)
	}

	if err := validation.Struct(out); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrSourceFormat, path, err)
	}
	return nil
}

// IsSourceError reports whether err came from reading or decoding a source document.
func IsSourceError(err error) bool {
	return errors.Is(err, apperrors.ErrSourceFormat) || errors.Is(err, apperrors.ErrSourceUnreadable)
}
