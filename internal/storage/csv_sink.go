// Package storage persists collected records. The CSV sink is the
// authoritative output: every record is flushed to disk the moment it is
// written, so a failure later in the run never loses earlier rows.
package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shanickcuello/linkedin-people-scrapper/internal/models"
)

// Header is the fixed CSV schema. Column order is part of the contract.
var Header = []string{"name", "title", "company", "location", "profile_url", "about", "connections"}

// SinkError is fatal to the run: a record that failed to reach disk cannot
// be recovered after process exit.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("output sink %s: %v", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// CSVSink appends one row per record to a timestamped CSV file.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
	path   string
	closed bool
}

// OpenCSVSink creates the output file under dir with a timestamp-derived
// name and writes the header row exactly once.
func OpenCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &SinkError{Op: "create output dir", Err: err}
	}

	name := fmt.Sprintf("linkedin_profiles_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &SinkError{Op: "create output file", Err: err}
	}

	s := &CSVSink{file: f, writer: csv.NewWriter(f), path: path}
	if err := s.writer.Write(Header); err != nil {
		f.Close()
		return nil, &SinkError{Op: "write header", Err: err}
	}
	if err := s.flush(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the output file location.
func (s *CSVSink) Path() string { return s.path }

// Write appends one record as a single row and forces it to disk. Rows are
// written atomically per record; a partially written row is never left
// behind on the success path.
func (s *CSVSink) Write(rec models.ProfileRecord) error {
	row := []string{
		rec.Name,
		rec.Title,
		rec.Company,
		rec.Location,
		rec.ProfileURL,
		rec.About,
		rec.Connections,
	}
	if err := s.writer.Write(row); err != nil {
		return &SinkError{Op: "write row", Err: err}
	}
	return s.flush()
}

// Close flushes and closes the file. It is safe to call on every exit path,
// including after an earlier error.
func (s *CSVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	flushErr := s.flush()
	if err := s.file.Close(); err != nil {
		return &SinkError{Op: "close", Err: err}
	}
	return flushErr
}

func (s *CSVSink) flush() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return &SinkError{Op: "flush", Err: err}
	}
	if err := s.file.Sync(); err != nil {
		return &SinkError{Op: "sync", Err: err}
	}
	return nil
}
