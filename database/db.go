package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go on the DSN so every pooled connection gets them,
	// not just the one that happens to run an Exec at startup.
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return &DB{db}, nil
}

func (db *DB) Migrate() error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			password TEXT,
			CONSTRAINT uq_username UNIQUE (username)
		)`,

		// Songs table
		`CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			author TEXT NOT NULL,
			bpm INTEGER NOT NULL
		)`,

		// Difficulties table
		`CREATE TABLE IF NOT EXISTS difficulties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			song_id INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			note_count INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (song_id) REFERENCES songs(id) ON DELETE CASCADE
		)`,

		// Notes table
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			difficulty_id INTEGER NOT NULL,
			time_ms INTEGER NOT NULL,
			lane INTEGER NOT NULL,
			type INTEGER NOT NULL,
			duration_ms INTEGER,
			FOREIGN KEY (difficulty_id) REFERENCES difficulties(id) ON DELETE CASCADE
		)`,

		// Highscores table
		`CREATE TABLE IF NOT EXISTS highscores (
			user_id INTEGER NOT NULL,
			difficulty_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			max_combo INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			date TEXT NOT NULL,
			PRIMARY KEY (user_id, difficulty_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (difficulty_id) REFERENCES difficulties(id) ON DELETE CASCADE
		)`,

		// Indexes for the hydration and enrichment lookups
		`CREATE INDEX IF NOT EXISTS idx_difficulties_song ON difficulties(song_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_difficulty ON notes(difficulty_id)`,
		`CREATE INDEX IF NOT EXISTS idx_highscores_difficulty ON highscores(difficulty_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
