package turso

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"
)

// Open connects to the history database. dsn is either a path to a local
// database file or a remote libsql:// or http(s):// URL, in which case
// authToken is appended when set.
func Open(dsn, authToken string) (*sql.DB, error) {
	if IsRemote(dsn) {
		return NewRemoteDB(dsn, authToken)
	}
	return NewLocalDB(dsn)
}

// IsRemote reports whether dsn points at a Turso server rather than a file.
func IsRemote(dsn string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// NewLocalDB opens a local database file, creating its directory if needed.
func NewLocalDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewRemoteDB connects to a Turso (libsql-server) database.
func NewRemoteDB(url, authToken string) (*sql.DB, error) {
	connStr := url
	if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Turso closes idle streams aggressively; stale pooled connections fail
	// with "stream not found".
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
