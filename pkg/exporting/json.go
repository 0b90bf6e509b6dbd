package exporting

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

func init() {
	Register(&JSONFormat{})
}

// JSONFormat stores one indented document: an object for a single record,
// an array otherwise.
type JSONFormat struct{}

func (f *JSONFormat) Name() string         { return "json" }
func (f *JSONFormat) Extensions() []string { return []string{".json"} }
func (f *JSONFormat) Writer() Writer       { return &JSONWriter{} }

// JSONWriter buffers records and writes the document on Flush.
type JSONWriter struct {
	path    string
	records []Record
	mu      sync.Mutex
}

func (w *JSONWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	w.path = path
	return file.Close()
}

func (w *JSONWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, record)
	return nil
}

func (w *JSONWriter) WriteBatch(records []Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, records...)
	return nil
}

func (w *JSONWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var doc interface{} = w.records
	if len(w.records) == 1 {
		doc = w.records[0]
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal records")
	}
	return os.WriteFile(w.path, append(data, '\n'), 0644)
}

func (w *JSONWriter) Close() error {
	return w.Flush()
}

func (w *JSONWriter) Path() string {
	return w.path
}
