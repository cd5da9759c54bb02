// Package csvio writes and reads the CSV files exchanged with the RAG service
// and the dashboard.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEmptyInput is returned when asked to write zero records; the header is
// taken from the first record, so at least one is required.
var ErrEmptyInput = errors.New("csvio: no records to write")

// Record is a row with a declared, ordered set of columns
type Record interface {
	Columns() []string
	Values() []string
}

// Write writes a header derived from the first record's columns followed by
// one row per record. Records are not checked for a uniform shape.
func Write[T Record](w io.Writer, records []T) error {
	if len(records) == 0 {
		return ErrEmptyInput
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(records[0].Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes records to path, creating parent directories as needed
func WriteFile[T Record](path string, records []T) error {
	if len(records) == 0 {
		return ErrEmptyInput
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
