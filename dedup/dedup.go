// Package dedup removes rows that repeat an author name from a CSV file.
package dedup

import (
	"fmt"
	"os"
	"path/filepath"

	"quotes-scraper/csvio"
)

// NameColumns are the accepted author-name columns, in lookup order
var NameColumns = []string{"autor", "author"}

// Result summarizes a deduplication
type Result struct {
	Column  string
	Kept    int
	Removed int
}

// Rows keeps the first row of each distinct value in column col, preserving order.
// Values are compared exactly.
func Rows(rows [][]string, col int) ([][]string, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([][]string, 0, len(rows))
	removed := 0

	for _, row := range rows {
		var key string
		if col < len(row) {
			key = row[col]
		}
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}

	return kept, removed
}

// File reads the CSV at inPath, drops rows with an already-seen author name and
// writes the remaining rows to outPath with the original header.
func File(inPath, outPath string) (*Result, error) {
	table, err := csvio.ReadFile(inPath)
	if err != nil {
		return nil, err
	}

	col, name := -1, ""
	for _, c := range NameColumns {
		if i := table.Index(c); i >= 0 {
			col, name = i, c
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%s: %w", inPath, &csvio.MissingColumnsError{Missing: NameColumns})
	}

	kept, removed := Rows(table.Rows, col)
	out := &csvio.Table{Header: table.Header, Rows: kept}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	if err := out.Write(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return &Result{Column: name, Kept: len(kept), Removed: removed}, nil
}
