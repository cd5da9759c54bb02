package csvio

import (
	"fmt"

	"quotes-scraper/models"
)

// ReadQuotes loads a quotes CSV, requiring every quote column
func ReadQuotes(path string) ([]models.Quote, error) {
	table, err := ReadFile(path, models.QuoteColumns...)
	if err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(table.Rows))
	for i, row := range table.Maps() {
		q, err := models.QuoteFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, i+2, err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// ReadAuthors loads an authors CSV, requiring every author column
func ReadAuthors(path string) ([]models.Author, error) {
	table, err := ReadFile(path, models.AuthorColumns...)
	if err != nil {
		return nil, err
	}

	authors := make([]models.Author, 0, len(table.Rows))
	for _, row := range table.Maps() {
		authors = append(authors, models.AuthorFromRow(row))
	}
	return authors, nil
}
