package prefs

import (
	"database/sql"
	"errors"
	"fmt"

	"closet-go/internal/closet"
	"closet-go/internal/prefs/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLitePrefs implements closet.Prefs on a single-table SQLite database.
// Each key holds one opaque blob; collections are stored whole.
type SQLitePrefs struct {
	db   *sql.DB
	path string
}

var _ closet.Prefs = (*SQLitePrefs)(nil)

// NewSQLitePrefs opens (and migrates, if needed) a preference database.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLitePrefs(path string) (*SQLitePrefs, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating preference database: %w", err)
	}

	return &SQLitePrefs{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a properly configured
// connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; keep the pool at one so
	// every query sees the same database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

func (p *SQLitePrefs) Get(key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // never written
		}
		return nil, fmt.Errorf("reading pref %q: %w", key, err)
	}
	return value, nil
}

func (p *SQLitePrefs) Set(key string, value []byte) error {
	_, err := p.db.Exec(
		"INSERT INTO prefs (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing pref %q: %w", key, err)
	}
	return nil
}

func (p *SQLitePrefs) Delete(key string) error {
	if _, err := p.db.Exec("DELETE FROM prefs WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting pref %q: %w", key, err)
	}
	return nil
}

func (p *SQLitePrefs) Keys() ([]string, error) {
	rows, err := p.db.Query("SELECT key FROM prefs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("listing prefs: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning pref key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing prefs: %w", err)
	}
	return keys, nil
}

// Close closes the underlying database connection.
func (p *SQLitePrefs) Close() error {
	return p.db.Close()
}
