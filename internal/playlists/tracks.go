package playlists

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/wavesdb/internal/db"
	"github.com/llehouerou/wavesdb/internal/index"
	"github.com/llehouerou/wavesdb/internal/playlist"
)

// AppendToQueue appends a song to the end of the play queue.
func (s *Store) AppendToQueue(song *index.Song) error {
	_, err := s.db.Exec(`
		INSERT INTO queue_tracks (position, uri)
		VALUES ((SELECT COALESCE(MAX(position) + 1, 0) FROM queue_tracks), ?)
	`, song.URI())
	return err
}

// AppendToStored appends a song to a stored playlist, creating the
// playlist on first use. The playlist's modification time is updated.
func (s *Store) AppendToStored(song *index.Song, name string) error {
	now := s.now().Unix()
	return dbutil.WithTx(context.Background(), s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO playlists (name, mtime) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET mtime = excluded.mtime
		`, name, now)
		if err != nil {
			return err
		}

		var id int64
		if err := tx.QueryRow(`SELECT id FROM playlists WHERE name = ?`, name).Scan(&id); err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO playlist_tracks (playlist_id, position, uri)
			VALUES (?, (SELECT COALESCE(MAX(position) + 1, 0) FROM playlist_tracks WHERE playlist_id = ?), ?)
		`, id, id, song.URI())
		return err
	})
}

// Queue returns the play queue.
func (s *Store) Queue() (*playlist.Playlist, error) {
	rows, err := s.db.Query(`SELECT uri FROM queue_tracks ORDER BY position`)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

// ClearQueue removes all tracks from the play queue.
func (s *Store) ClearQueue() error {
	_, err := s.db.Exec(`DELETE FROM queue_tracks`)
	return err
}

// Tracks returns the tracks of a stored playlist.
func (s *Store) Tracks(name string) (*playlist.Playlist, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM playlists WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT uri FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	return s.collect(rows)
}

func (s *Store) collect(rows *sql.Rows) (*playlist.Playlist, error) {
	defer rows.Close()

	pl := playlist.NewPlaylist()
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		pl.Add(playlist.FromURI(s.idx, uri))
	}
	return pl, rows.Err()
}
