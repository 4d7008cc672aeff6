package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// open opens a SQLite database file with the pragmas every store in this
// service relies on. The driver creates the file if it does not exist, so
// callers that must not create anything have to check for the file first.
func open(path string) (*sql.DB, error) {
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// modernc.org/sqlite is happiest with a single connection per handle;
	// concurrency across users comes from separate files, not from pooling.
	db.SetMaxOpenConns(1)
	return db, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column (e.g. "user.email"). The error message check covers
// driver versions that do not surface the extended result code.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		default:
			return false
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, column)
}
