package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the SQLite database at dbPath and creates the schema
func Open(dbPath string) (*sql.DB, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; sqlite serializes anyway and this keeps :memory: on a single connection
	database.SetMaxOpenConns(1)

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return database, nil
}

// createTables creates all necessary tables
func createTables(database *sql.DB) error {
	createDocumentsTable := `
	CREATE TABLE IF NOT EXISTS presentation_documents (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document_name TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := database.Exec(createDocumentsTable); err != nil {
		return fmt.Errorf("failed to create presentation_documents table: %w", err)
	}

	return nil
}
