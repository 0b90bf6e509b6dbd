package exporting

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Exporter writes records to one output file in a chosen format.
type Exporter struct {
	path   string
	format string
	writer Writer
}

// NewExporter creates the output directory if needed and opens a writer for
// path. An empty format is inferred from the path's extension.
func NewExporter(path, format string) (*Exporter, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create output directory")
		}
	}

	var (
		f  Format
		ok bool
	)
	if format == "" {
		f, ok = GetByPath(path)
	} else {
		f, ok = Get(format)
	}
	if !ok {
		return nil, errors.Newf("unsupported format %q for %s", format, path)
	}

	writer := f.Writer()
	if err := writer.Init(path); err != nil {
		return nil, errors.Wrap(err, "initialize writer")
	}

	return &Exporter{path: path, format: f.Name(), writer: writer}, nil
}

// Path returns the output file path.
func (e *Exporter) Path() string {
	return e.path
}

// Format returns the output format name.
func (e *Exporter) Format() string {
	return e.format
}

// Write writes a single record.
func (e *Exporter) Write(record Record) error {
	return e.writer.Write(record)
}

// WriteBatch writes multiple records.
func (e *Exporter) WriteBatch(records []Record) error {
	return e.writer.WriteBatch(records)
}

// Close flushes and closes the output file.
func (e *Exporter) Close() error {
	return e.writer.Close()
}
