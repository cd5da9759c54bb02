package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Schema holds every table the scraper writes to
const Schema = "quotes_scraper"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// ConnString returns DATABASE_URL, or builds a connection string from the
// individual DB_* variables when it is not set
func ConnString() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "quotes_scraper")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "quotes_scraper")
	sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		host, port, user, password, dbname, sslmode, Schema)
}

// NewDB opens a connection and makes sure the schema exists.
// An empty connStr falls back to ConnString().
func NewDB(ctx context.Context, connStr string) (*DB, error) {
	if connStr == "" {
		connStr = ConnString()
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.initSchema(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS `+Schema)
	if err != nil {
		// Permission denied is fine when the schema was created by an admin
		log.Warn().Err(err).Msg("Could not create schema (may already exist)")
	}

	_, err = db.conn.ExecContext(ctx, `SET search_path TO `+Schema)
	if err != nil {
		return fmt.Errorf("failed to set search path: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS crawl_runs (
			id UUID PRIMARY KEY,
			base_url TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'in_progress',
			pages_count INTEGER NOT NULL DEFAULT 0,
			quotes_count INTEGER NOT NULL DEFAULT 0,
			authors_count INTEGER NOT NULL DEFAULT 0,
			last_error TEXT,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			finished_at TIMESTAMP,
			CONSTRAINT valid_status CHECK (status IN ('in_progress', 'done', 'failed'))
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create crawl_runs table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS quotes (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			author TEXT NOT NULL,
			text TEXT NOT NULL,
			tags TEXT[] NOT NULL DEFAULT '{}',
			source_url TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create quotes table: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS authors (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES crawl_runs(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			birth_date TEXT NOT NULL,
			birth_location TEXT NOT NULL,
			biography TEXT NOT NULL,
			url TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create authors table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_crawl_runs_started_at ON crawl_runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_run_id ON quotes(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_quotes_author ON quotes(author)`,
		`CREATE INDEX IF NOT EXISTS idx_authors_run_id ON authors(run_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			log.Warn().Err(err).Str("statement", stmt).Msg("Failed to create index")
		}
	}

	log.Debug().Msg("Database schema initialized successfully")
	return nil
}

// GetConn returns the underlying database connection
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
