package prefs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB holds device-local durable preferences. These live outside the owner's
// server-side data and survive across sessions on this device only.
type DB struct {
	*sql.DB
}

// DefaultPath returns the default preference database path (~/.studydesk/prefs.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".studydesk", "prefs.db"), nil
}

// Open opens or creates the preference database
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create preference directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to preference database: %w", err)
	}

	db := &DB{DB: sqlDB}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// OpenDefault opens the preference database at the default path
func OpenDefault() (*DB, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS hidden_lists (
    owner_id TEXT NOT NULL,
    list_id TEXT NOT NULL,
    PRIMARY KEY (owner_id, list_id)
);`)
	return err
}

// HiddenLists returns the list ids the owner has chosen to hide from view
func (db *DB) HiddenLists(ownerID string) ([]string, error) {
	rows, err := db.Query(`SELECT list_id FROM hidden_lists WHERE owner_id = ? ORDER BY list_id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HideList marks a list as hidden for the owner; hiding twice is a no-op
func (db *DB) HideList(ownerID, listID string) error {
	_, err := db.Exec(`INSERT OR IGNORE INTO hidden_lists (owner_id, list_id) VALUES (?, ?)`, ownerID, listID)
	return err
}

// UnhideList removes a list from the owner's hidden set
func (db *DB) UnhideList(ownerID, listID string) error {
	_, err := db.Exec(`DELETE FROM hidden_lists WHERE owner_id = ? AND list_id = ?`, ownerID, listID)
	return err
}

// IsHidden reports whether the owner has hidden the list
func (db *DB) IsHidden(ownerID, listID string) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(1) FROM hidden_lists WHERE owner_id = ? AND list_id = ?`, ownerID, listID).Scan(&n)
	return n > 0, err
}
