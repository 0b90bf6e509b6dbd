package exporting

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

// DefaultBufferSize is the write buffer size for JSON Lines output.
const DefaultBufferSize = 64 * 1024

func init() {
	Register(&JSONLFormat{})
}

// JSONLFormat writes one compact JSON object per line.
type JSONLFormat struct{}

func (f *JSONLFormat) Name() string         { return "jsonl" }
func (f *JSONLFormat) Extensions() []string { return []string{".jsonl"} }
func (f *JSONLFormat) Writer() Writer       { return &JSONLWriter{} }

// JSONLWriter streams records through a buffered encoder.
type JSONLWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

func (w *JSONLWriter) Init(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	w.path, w.file = path, file
	w.buf = bufio.NewWriterSize(file, DefaultBufferSize)
	w.enc = json.NewEncoder(w.buf)
	return nil
}

func (w *JSONLWriter) Write(record Record) error {
	return w.WriteBatch([]Record{record})
}

// WriteBatch encodes records in order and stops at the first failure.
func (w *JSONLWriter) WriteBatch(records []Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.enc == nil {
		return errors.New("jsonl writer not initialized")
	}
	for i, r := range records {
		if err := w.enc.Encode(r); err != nil {
			return errors.Wrapf(err, "encode record %d", i)
		}
	}
	return nil
}

func (w *JSONLWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf == nil {
		return nil
	}
	return errors.Wrap(w.buf.Flush(), "flush")
}

func (w *JSONLWriter) Close() error {
	flushErr := w.Flush()
	if w.file == nil {
		return flushErr
	}
	return errors.CombineErrors(flushErr, w.file.Close())
}

func (w *JSONLWriter) Path() string {
	return w.path
}
