// Package probing reads kernel-exposed text files.
//
// Every helper returns an error instead of aborting: a missing or unreadable
// source is an ordinary condition for a monitor and callers decide what to keep.
package probing

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// File reads a file and returns its content.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

// FileLines reads a file into lines. A trailing newline does not produce an
// empty last line.
func FileLines(path string) ([]string, error) {
	v, err := File(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(v), nil
}

// SplitLines splits content on newlines, dropping the empty tail.
func SplitLines(content string) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// ParseKV splits each line at the first sep. Lines without sep are ignored.
func ParseKV(lines []string, sep string) map[string]string {
	kv := make(map[string]string, len(lines))
	for _, line := range lines {
		idx := strings.Index(line, sep)
		if idx != -1 {
			key := strings.TrimSpace(line[:idx])
			val := strings.TrimSpace(line[idx+len(sep):])
			kv[key] = val
		}
	}
	return kv
}

// ParseInt64 parses a base-10 int64, ignoring surrounding whitespace.
func ParseInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing int %q", s)
	}
	return v, nil
}

// ParseUint64 parses a base-10 uint64, ignoring surrounding whitespace.
func ParseUint64(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing uint %q", s)
	}
	return v, nil
}

// ParseFloat64 parses a float64, ignoring surrounding whitespace.
func ParseFloat64(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing float %q", s)
	}
	return v, nil
}

// ParseUints parses every field as a uint64, stopping at the first failure.
func ParseUints(fields []string) ([]uint64, error) {
	out := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := ParseUint64(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
