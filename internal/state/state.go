// Package state opens the SQLite database holding the song index, the
// queue and the stored playlists.
package state

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName    = "wavesdb"
	dbFileName = "wavesdb.db"
)

type Manager struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
// An empty path selects the default location under the XDG data directory.
func Open(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db, path: path}, nil
}

// OpenMemory opens a private in-memory database with the schema applied.
// Used by tests and throwaway scans.
func OpenMemory() (*Manager, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)
	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Manager{db: db, path: ":memory:"}, nil
}

func configure(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return err
	}
	return initSchema(db)
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// Path returns the database file path, or ":memory:".
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) Close() error {
	return m.db.Close()
}
