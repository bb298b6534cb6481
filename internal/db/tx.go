// Package db holds small database/sql helpers shared by the stores.
package db

import (
	"context"
	"database/sql"
)

// WithTx runs fn inside a transaction, committing when fn succeeds and
// rolling back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after a successful commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// DurationArg converts a duration in seconds to a query argument,
// storing negative (unknown) durations as NULL.
func DurationArg(seconds int) sql.NullInt64 {
	if seconds < 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(seconds), Valid: true}
}

// NullInt64Or returns the value, or def when it is NULL.
func NullInt64Or(n sql.NullInt64, def int64) int64 {
	if !n.Valid {
		return def
	}
	return n.Int64
}
