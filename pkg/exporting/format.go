// Package exporting persists snapshot records to files in several formats.
package exporting

import (
	"path/filepath"
	"strings"

	"HostMonitor/pkg/metrics"
)

// Record is a flat map representing a single exported snapshot.
type Record = metrics.Record

// Format defines the interface for a data format.
type Format interface {
	Name() string
	Extensions() []string
	Writer() Writer
}

// Writer writes records to a file.
type Writer interface {
	Init(path string) error
	Write(record Record) error
	WriteBatch(records []Record) error
	Flush() error
	Close() error
	Path() string
}

var (
	registry    = make(map[string]Format)
	extRegistry = make(map[string]Format)
)

// Register adds a format to the registry.
func Register(f Format) {
	name := strings.ToLower(f.Name())
	registry[name] = f
	for _, ext := range f.Extensions() {
		extRegistry[strings.ToLower(ext)] = f
	}
}

// Get returns a format by name.
func Get(name string) (Format, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// GetByExtension returns a format by file extension.
func GetByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := extRegistry[ext]
	return f, ok
}

// GetByPath returns a format based on the file's extension.
func GetByPath(path string) (Format, bool) {
	return GetByExtension(filepath.Ext(path))
}

// GetExtension returns the file extension for a format name.
func GetExtension(format string) string {
	if f, ok := Get(format); ok {
		if exts := f.Extensions(); len(exts) > 0 {
			return exts[0]
		}
	}
	return ".json"
}

// SaveRecord writes a single record to path in the named format. An empty
// format is inferred from the path's extension.
func SaveRecord(path, format string, record Record) error {
	return SaveRecords(path, format, []Record{record})
}

// SaveRecords writes records to path in the named format.
func SaveRecords(path, format string, records []Record) error {
	e, err := NewExporter(path, format)
	if err != nil {
		return err
	}

	if err := e.WriteBatch(records); err != nil {
		_ = e.Close()
		return err
	}
	return e.Close()
}
