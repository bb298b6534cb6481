// Package playlists persists the play queue and the stored playlists.
package playlists

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/wavesdb/internal/index"
)

// ErrNotFound is returned when a stored playlist does not exist.
var ErrNotFound = errors.New("no such playlist")

// Info represents a stored playlist's metadata (without tracks).
type Info struct {
	Name  string
	MTime time.Time // zero if unknown
}

// Store provides database operations for the queue and stored playlists.
type Store struct {
	db  *sql.DB
	idx *index.Index
	now func() time.Time
}

// New creates a new Store. The index resolves stored locations to song
// metadata when listing tracks; it may be nil.
func New(db *sql.DB, idx *index.Index) *Store {
	return &Store{db: db, idx: idx, now: time.Now}
}

// List returns all stored playlists ordered by name.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`
		SELECT name, mtime
		FROM playlists
		ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var mtime int64
		if err := rows.Scan(&info.Name, &mtime); err != nil {
			return nil, err
		}
		info.MTime = fromUnix(mtime)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Get returns a stored playlist by name.
func (s *Store) Get(name string) (*Info, error) {
	var mtime int64
	err := s.db.QueryRow(`SELECT mtime FROM playlists WHERE name = ?`, name).Scan(&mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Info{Name: name, MTime: fromUnix(mtime)}, nil
}

// Delete deletes a stored playlist and all its tracks.
func (s *Store) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM playlists WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// MergeMetadata updates the modification time of every named playlist,
// creating the playlists that do not exist yet.
func (s *Store) MergeMetadata(infos []Info) error {
	stmt, err := s.db.Prepare(`
		INSERT INTO playlists (name, mtime) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET mtime = excluded.mtime
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, info := range infos {
		if _, err := stmt.Exec(info.Name, toUnix(info.MTime)); err != nil {
			return err
		}
	}
	return nil
}

func fromUnix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
