package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quotes-scraper/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Run statuses
const (
	RunInProgress = "in_progress"
	RunDone       = "done"
	RunFailed     = "failed"
)

// Run represents one pipeline execution
type Run struct {
	ID           uuid.UUID
	BaseURL      string
	Status       string // "in_progress", "done", "failed"
	PagesCount   int
	QuotesCount  int
	AuthorsCount int
	LastError    sql.NullString
	StartedAt    time.Time
	FinishedAt   sql.NullTime
}

// CreateRun records the start of the crawl run id
func (db *DB) CreateRun(ctx context.Context, id uuid.UUID, baseURL string) (*Run, error) {
	run := Run{ID: id}
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO crawl_runs (id, base_url, status)
		VALUES ($1, $2, $3)
		RETURNING base_url, status, started_at
	`, run.ID, baseURL, RunInProgress).Scan(&run.BaseURL, &run.Status, &run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return &run, nil
}

// FinishRun stores the final counts of a successful run
func (db *DB) FinishRun(ctx context.Context, id uuid.UUID, pages, quotes, authors int) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE crawl_runs
		SET status = $1, pages_count = $2, quotes_count = $3, authors_count = $4, finished_at = CURRENT_TIMESTAMP
		WHERE id = $5
	`, RunDone, pages, quotes, authors, id)
	return err
}

// FailRun marks a run as failed with the error that stopped it
func (db *DB) FailRun(ctx context.Context, id uuid.UUID, cause error) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE crawl_runs
		SET status = $1, last_error = $2, finished_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, RunFailed, cause.Error(), id)
	return err
}

// GetRun loads a run by ID. It returns nil, nil when the run does not exist.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, base_url, status, pages_count, quotes_count, authors_count, last_error, started_at, finished_at
		FROM crawl_runs
		WHERE id = $1
	`, id).Scan(
		&run.ID, &run.BaseURL, &run.Status, &run.PagesCount, &run.QuotesCount,
		&run.AuthorsCount, &run.LastError, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// SaveQuotes stores the quotes of a run in crawl order
func (db *DB) SaveQuotes(ctx context.Context, runID uuid.UUID, quotes []models.Quote) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO quotes (run_id, position, author, text, tags, source_url)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, q := range quotes {
			tags := q.Tags
			if tags == nil {
				tags = []string{}
			}
			if _, err := stmt.ExecContext(ctx, runID, i, q.Author, q.Text, pq.Array(tags), q.SourceURL); err != nil {
				return fmt.Errorf("failed to save quote %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetQuotes returns the quotes of a run in crawl order
func (db *DB) GetQuotes(ctx context.Context, runID uuid.UUID) ([]models.Quote, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT author, text, tags, source_url
		FROM quotes
		WHERE run_id = $1
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := []models.Quote{}
	for rows.Next() {
		var q models.Quote
		var tags pq.StringArray
		if err := rows.Scan(&q.Author, &q.Text, &tags, &q.SourceURL); err != nil {
			return nil, err
		}
		q.Tags = []string(tags)
		if q.Tags == nil {
			q.Tags = []string{}
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// SaveAuthors stores the authors of a run
func (db *DB) SaveAuthors(ctx context.Context, runID uuid.UUID, authors []models.Author) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO authors (run_id, name, birth_date, birth_location, biography, url)
			VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, a := range authors {
			if _, err := stmt.ExecContext(ctx, runID, a.Name, a.BirthDate, a.BirthLocation, a.Biography, a.URL); err != nil {
				return fmt.Errorf("failed to save author %q: %w", a.Name, err)
			}
		}
		return nil
	})
}

// GetAuthors returns the authors of a run in insertion order
func (db *DB) GetAuthors(ctx context.Context, runID uuid.UUID) ([]models.Author, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, birth_date, birth_location, biography, url
		FROM authors
		WHERE run_id = $1
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []models.Author{}
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.Name, &a.BirthDate, &a.BirthLocation, &a.Biography, &a.URL); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
