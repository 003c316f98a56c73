package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS usage_counts (
	user_id    TEXT    NOT NULL,
	day        TEXT    NOT NULL,
	count      INTEGER NOT NULL,
	updated_at TEXT    NOT NULL,
	PRIMARY KEY (user_id, day)
);
CREATE TABLE IF NOT EXISTS mission_completions (
	user_id      TEXT    NOT NULL,
	day          TEXT    NOT NULL,
	mission_id   INTEGER NOT NULL,
	completed_at TEXT    NOT NULL,
	PRIMARY KEY (user_id, day, mission_id)
);`

// SQLite persists daily usage counts and mission completions in a SQLite file.
type SQLite struct {
	db        *sql.DB
	retention time.Duration
	loc       *time.Location
	now       func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. A nil loc means UTC.
func OpenSQLite(ctx context.Context, path string, retention time.Duration, loc *time.Location) (*SQLite, error) {
	if loc == nil {
		loc = time.UTC
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY on upserts.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db, retention: retention, loc: loc, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Count returns the usage count for key, or 0 if nothing was recorded.
func (s *SQLite) Count(ctx context.Context, key Key) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM usage_counts WHERE user_id = ? AND day = ?`,
		key.UserID, key.Date).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read count: %w", err)
	}
	return n, nil
}

// SetCount stores n as the usage count for key.
func (s *SQLite) SetCount(ctx context.Context, key Key, n int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO usage_counts (user_id, day, count, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, day) DO UPDATE SET count = excluded.count, updated_at = excluded.updated_at`,
		key.UserID, key.Date, n, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: write count: %w", err)
	}
	return nil
}

// Completed returns the mission ids completed under key in ascending order.
func (s *SQLite) Completed(ctx context.Context, key Key) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mission_id FROM mission_completions WHERE user_id = ? AND day = ? ORDER BY mission_id`,
		key.UserID, key.Date)
	if err != nil {
		return nil, fmt.Errorf("store: read missions: %w", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan mission: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Complete marks missionID done under key. Completing twice is a no-op.
func (s *SQLite) Complete(ctx context.Context, key Key, missionID int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO mission_completions (user_id, day, mission_id, completed_at) VALUES (?, ?, ?, ?)`,
		key.UserID, key.Date, missionID, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store: complete mission: %w", err)
	}
	return nil
}

// Prune deletes every row whose day falls outside the retention window at now.
// Returns the number of rows removed across both tables.
func (s *SQLite) Prune(ctx context.Context, now time.Time) (int, error) {
	cutoff := cutoffDay(now, s.retention, s.loc)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin prune: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	total := 0
	for _, q := range []string{
		`DELETE FROM usage_counts WHERE day < ?`,
		`DELETE FROM mission_completions WHERE day < ?`,
	} {
		res, err := tx.ExecContext(ctx, q, cutoff)
		if err != nil {
			return 0, fmt.Errorf("store: prune: %w", err)
		}
		n, _ := res.RowsAffected()
		total += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit prune: %w", err)
	}
	return total, nil
}

// Run prunes past days periodically until ctx is cancelled.
// Call in a dedicated goroutine.
func (s *SQLite) Run(ctx context.Context) {
	pruneLoop(ctx, s.retention, func(now time.Time) (int, error) {
		return s.Prune(ctx, now)
	})
}
