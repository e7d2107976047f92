// Package export writes the task table to CSV or JSON files.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sadopc/studytrackr/internal/store"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Formats lists the supported formats in picker order.
var Formats = []Format{FormatCSV, FormatJSON}

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// DefaultPath names a dated export file inside dir.
func DefaultPath(dir string, f Format, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("studytrackr-export-%s.%s", now.Format("2006-01-02"), f))
}

// Tasks writes tasks to path in format f.
func Tasks(tasks []store.Task, f Format, path string) error {
	switch f {
	case FormatCSV:
		return ToCSV(tasks, path)
	case FormatJSON:
		return ToJSON(tasks, path)
	}
	return fmt.Errorf("unknown export format %q", f)
}
