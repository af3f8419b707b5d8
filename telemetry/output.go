package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Output writes window stats to stats.csv in a directory.
// A nil *Output discards everything.
type Output struct {
	file          *os.File
	headerWritten bool
}

// NewOutput creates the output directory and stats.csv.
// Returns nil if dir is empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "stats.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating stats.csv: %w", err)
	}
	return &Output{file: f}, nil
}

// Write appends one stats row.
func (o *Output) Write(stats WindowStats) error {
	if o == nil {
		return nil
	}

	records := []WindowStats{stats}
	if !o.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, o.file); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		o.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, o.file); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	return o.file.Close()
}
