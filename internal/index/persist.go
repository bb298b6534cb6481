package index

import (
	"context"
	"database/sql"

	dbutil "github.com/llehouerou/wavesdb/internal/db"
	"github.com/llehouerou/wavesdb/internal/tags"
)

// Load builds an index from the songs and song_tags tables.
func Load(ctx context.Context, db *sql.DB) (*Index, error) {
	idx := New()
	byID := make(map[int64]*Song)

	rows, err := db.QueryContext(ctx, `SELECT id, uri, has_tag, duration FROM songs ORDER BY uri`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id       int64
			uri      string
			hasTag   bool
			duration sql.NullInt64
		)
		if err := rows.Scan(&id, &uri, &hasTag, &duration); err != nil {
			return nil, err
		}
		var tag *tags.Tag
		if hasTag {
			tag = tags.New()
			tag.Duration = int(dbutil.NullInt64Or(duration, tags.UnknownDuration))
		}
		s, err := idx.AddSong(uri, tag)
		if err != nil {
			return nil, err
		}
		byID[id] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagRows, err := db.QueryContext(ctx, `SELECT song_id, type, value FROM song_tags ORDER BY song_id, position`)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var (
			songID int64
			typ    int
			value  string
		)
		if err := tagRows.Scan(&songID, &typ, &value); err != nil {
			return nil, err
		}
		s, ok := byID[songID]
		if !ok || s.Tag == nil {
			continue
		}
		s.Tag.Add(tags.Type(typ), value)
	}
	return idx, tagRows.Err()
}

// Save replaces the stored songs with the content of idx.
func Save(ctx context.Context, db *sql.DB, idx *Index) error {
	return dbutil.WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM song_tags`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM songs`); err != nil {
			return err
		}

		songStmt, err := tx.PrepareContext(ctx, `INSERT INTO songs (uri, has_tag, duration) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer songStmt.Close()

		tagStmt, err := tx.PrepareContext(ctx, `INSERT INTO song_tags (song_id, position, type, value) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer tagStmt.Close()

		return idx.Traverse("", SongFunc(func(s *Song) error {
			duration := dbutil.DurationArg(tags.UnknownDuration)
			if s.Tag != nil {
				duration = dbutil.DurationArg(s.Tag.Duration)
			}
			res, err := songStmt.ExecContext(ctx, s.URI(), s.Tag != nil, duration)
			if err != nil {
				return err
			}
			if s.Tag == nil {
				return nil
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for pos, it := range s.Tag.Items {
				if _, err := tagStmt.ExecContext(ctx, id, pos, int(it.Type), it.Value); err != nil {
					return err
				}
			}
			return nil
		}))
	})
}
