package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// All hireline state lives in a .hireline directory inside the workspace,
// next to the user's own files. The store is a single sqlite file there.
const (
	stateDir = ".hireline"
	dbFile   = "hireline.db"
)

// Path returns the database file location for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, stateDir, dbFile)
}

// DSN builds the connection string. Foreign keys are enforced, and writers
// wait on the lock instead of failing straight away.
func DSN(workspace string) string {
	return fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", Path(workspace))
}

// EnsureWorkspace creates the state directory if missing.
func EnsureWorkspace(workspace string) (string, error) {
	path := filepath.Join(workspace, stateDir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// Open ensures the state directory exists and opens the database.
func Open(workspace string) (*sql.DB, error) {
	if _, err := EnsureWorkspace(workspace); err != nil {
		return nil, err
	}
	return sql.Open("sqlite", DSN(workspace))
}
