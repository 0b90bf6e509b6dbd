package exporting

import (
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"
)

func init() {
	Register(&ParquetFormat{})
}

// ParquetFormat handles Parquet files.
type ParquetFormat struct{}

func (f *ParquetFormat) Name() string         { return "parquet" }
func (f *ParquetFormat) Extensions() []string { return []string{".parquet"} }
func (f *ParquetFormat) Writer() Writer       { return &ParquetWriter{} }

// ParquetWriter writes Snappy-compressed Parquet files. The schema is built
// from the sorted keys of the first record.
type ParquetWriter struct {
	path    string
	file    *os.File
	writer  *parquet.Writer
	columns []string
	mu      sync.Mutex
}

func (w *ParquetWriter) Init(path string) error {
	w.path = path
	return nil
}

func (w *ParquetWriter) initSchema(record Record) error {
	w.columns = sortedKeys(record)

	group := make(parquet.Group, len(w.columns))
	for _, name := range w.columns {
		group[name] = valueToParquetNode(record[name])
	}
	schema := parquet.NewSchema("snapshot", group)

	file, err := os.Create(w.path)
	if err != nil {
		return errors.Wrap(err, "create file")
	}
	w.file = file
	w.writer = parquet.NewWriter(file, schema, parquet.Compression(&parquet.Snappy))
	return nil
}

func valueToParquetNode(val interface{}) parquet.Node {
	switch val.(type) {
	case int, int32, int64, uint, uint32, uint64:
		return parquet.Optional(parquet.Int(64))
	case float32, float64:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case bool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	default:
		return parquet.Optional(parquet.String())
	}
}

func (w *ParquetWriter) recordToRow(record Record) parquet.Row {
	row := make(parquet.Row, len(w.columns))
	for i, name := range w.columns {
		val, ok := record[name]
		if !ok || val == nil {
			row[i] = parquet.NullValue().Level(0, 0, i)
			continue
		}
		row[i] = goToParquetValue(val).Level(0, 1, i)
	}
	return row
}

func goToParquetValue(val interface{}) parquet.Value {
	switch v := val.(type) {
	case bool:
		return parquet.BooleanValue(v)
	case int:
		return parquet.Int64Value(int64(v))
	case int32:
		return parquet.Int64Value(int64(v))
	case int64:
		return parquet.Int64Value(v)
	case uint:
		return parquet.Int64Value(int64(v))
	case uint32:
		return parquet.Int64Value(int64(v))
	case uint64:
		return parquet.Int64Value(int64(v))
	case float32:
		return parquet.DoubleValue(float64(v))
	case float64:
		return parquet.DoubleValue(v)
	case string:
		return parquet.ByteArrayValue([]byte(v))
	default:
		return parquet.ByteArrayValue([]byte(fmt.Sprintf("%v", v)))
	}
}

func (w *ParquetWriter) Write(record Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer == nil {
		if err := w.initSchema(record); err != nil {
			return err
		}
	}

	if _, err := w.writer.WriteRows([]parquet.Row{w.recordToRow(record)}); err != nil {
		return errors.Wrap(err, "write parquet row")
	}
	return nil
}

func (w *ParquetWriter) WriteBatch(records []Record) error {
	for i, r := range records {
		if err := w.Write(r); err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
	}
	return nil
}

func (w *ParquetWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		return w.writer.Flush()
	}
	return nil
}

func (w *ParquetWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writer != nil {
		if err := w.writer.Close(); err != nil {
			w.file.Close()
			return errors.Wrap(err, "close parquet writer")
		}
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *ParquetWriter) Path() string {
	return w.path
}
