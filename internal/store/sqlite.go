// Package store is the local SQLite database: a development backend for the
// whitewater log and the home of privacy-conscious visitor tracking.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/andGarc/portfolio/internal/wwlog"
	_ "modernc.org/sqlite"
)

const (
	createEntriesTableSQL = `
	CREATE TABLE IF NOT EXISTS wwlog (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		river TEXT NOT NULL,
		level REAL NOT NULL DEFAULT 0,
		level_type TEXT NOT NULL CHECK (level_type IN ('FT', 'CFS')),
		notes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_wwlog_date ON wwlog(date);`

	createVisitorsTableSQL = `
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);`

	listEntriesSQL = `SELECT id, date, river, level, level_type, notes FROM wwlog ORDER BY date DESC, id DESC`
	insertEntrySQL = `INSERT INTO wwlog (date, river, level, level_type, notes) VALUES (?, ?, ?, ?, ?)`
)

// SQLite implements wwlog.Source on a local database file.
type SQLite struct {
	db   *sql.DB
	Path string
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*SQLite, error) {
	if path == "" {
		path = filepath.Join("data", "portfolio.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	log.Printf("Opening database at %s", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes from racing on the file lock.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLite{db: db, Path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	for _, stmt := range []string{createEntriesTableSQL, createVisitorsTableSQL} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListEntries returns every entry, newest date first.
func (s *SQLite) ListEntries(ctx context.Context) ([]wwlog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, listEntriesSQL)
	if err != nil {
		return nil, &wwlog.DataAccessError{Op: "list", Message: "failed to query entries", Err: err}
	}
	defer rows.Close()

	var entries []wwlog.Entry
	for rows.Next() {
		var (
			e     wwlog.Entry
			notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Date, &e.River, &e.Level, &e.LevelType, &notes); err != nil {
			return nil, &wwlog.DataAccessError{Op: "list", Message: "failed to read entry", Err: err}
		}
		if notes.Valid {
			n := notes.String
			e.Notes = &n
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &wwlog.DataAccessError{Op: "list", Message: "failed to read entries", Err: err}
	}
	return entries, nil
}

// InsertEntry stores e and returns the row with its assigned id.
func (s *SQLite) InsertEntry(ctx context.Context, e wwlog.NewEntry) (wwlog.Entry, error) {
	res, err := s.db.ExecContext(ctx, insertEntrySQL, e.Date, e.River, e.Level, string(e.LevelType), e.Notes)
	if err != nil {
		return wwlog.Entry{}, &wwlog.DataAccessError{Op: "insert", Message: fmt.Sprintf("failed to save entry: %v", err), Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wwlog.Entry{}, &wwlog.DataAccessError{Op: "insert", Message: "failed to read new entry id", Err: err}
	}

	notes := e.Notes
	return wwlog.Entry{
		ID:        id,
		Date:      e.Date,
		River:     e.River,
		Level:     e.Level,
		LevelType: e.LevelType,
		Notes:     &notes,
	}, nil
}
