// Package storage persists concepts and citation counts.
//
// JSONL files under .crossdomain/ are the source of truth. The SQLite database in the
// cache directory is rebuilt from them and serves lookups and full-text search.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
// This constant is shared across all JSONL file readers.
const MaxJSONLLineCapacity = 1024 * 1024

// readJSONL decodes one record per non-empty line, validating each before it is kept.
// A missing file yields no records.
func readJSONL[T any](path, kind string, validate func(*T) error) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // Empty file returns empty slice
		}
		return nil, fmt.Errorf("opening %s file: %w", kind, err)
	}
	defer f.Close()

	var records []T
	scanner := bufio.NewScanner(f)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}

		// Fail fast: nothing is returned if any record is invalid
		if err := validate(&rec); err != nil {
			return nil, fmt.Errorf("invalid %s at line %d: %w", kind, lineNum, err)
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s file: %w", kind, err)
	}

	return records, nil
}

// writeJSONLine marshals a record and writes it followed by a newline.
func writeJSONLine(w io.Writer, kind string, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", kind, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing newline: %w", err)
	}
	return nil
}

// appendJSONL adds one record to the end of a JSONL file.
func appendJSONL(path, kind string, rec any) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening %s file for append: %w", kind, err)
	}
	defer f.Close()

	return writeJSONLine(f, kind, rec)
}

// writeAllJSONL replaces a JSONL file. The new content is written to a temp file and
// renamed into place so a failed write never truncates the existing data.
func writeAllJSONL[T any](path, kind string, records []T) error {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating %s file: %w", kind, err)
	}

	w := bufio.NewWriter(f)
	for _, rec := range records {
		if err := writeJSONLine(w, kind, rec); err != nil {
			f.Close()
			os.Remove(tempPath)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("flushing %s file: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing %s file: %w", kind, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming %s file: %w", kind, err)
	}
	return nil
}
