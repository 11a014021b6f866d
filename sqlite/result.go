package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/suppfetch"
)

// Compile-time interface verification.
var _ suppfetch.ResultCache = (*ResultCache)(nil)

// ResultCache implements suppfetch.ResultCache using SQLite. Results are
// stored as their JSON encoding.
type ResultCache struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewResultCache creates a new ResultCache.
func NewResultCache(db *DB) *ResultCache {
	return &ResultCache{db: db, Now: time.Now}
}

// FindResult returns the live result stored under key.
func (c *ResultCache) FindResult(ctx context.Context, key string) (*suppfetch.Result, error) {
	var payload, expiresAt string
	err := c.db.QueryRowContext(ctx, `
		SELECT payload, expires_at
		FROM results
		WHERE key = ?
	`, key).Scan(&payload, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, suppfetch.Errorf(suppfetch.ENOTFOUND, "result not cached")
	}
	if err != nil {
		return nil, err
	}

	expires, err := parseTime(expiresAt, "expires_at")
	if err != nil {
		return nil, err
	}
	if !c.now().Before(expires) {
		return nil, suppfetch.Errorf(suppfetch.ENOTFOUND, "cached result expired")
	}

	var r suppfetch.Result
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return &r, nil
}

// SaveResult stores r under key, replacing any previous entry.
func (c *ResultCache) SaveResult(ctx context.Context, key string, r *suppfetch.Result, ttl time.Duration) error {
	if key == "" {
		return suppfetch.Errorf(suppfetch.EINVALID, "cache key required")
	}
	if r == nil {
		return suppfetch.Errorf(suppfetch.EINVALID, "result required")
	}
	if ttl <= 0 {
		return suppfetch.Errorf(suppfetch.EINVALID, "ttl must be positive")
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	now := c.now().UTC()
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO results (key, query, payload, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			query = excluded.query,
			payload = excluded.payload,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, key, r.Query, string(payload), formatTime(now), formatTime(now.Add(ttl)))
	return err
}

// DeleteExpired removes expired entries and returns how many were removed.
func (c *ResultCache) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM results WHERE expires_at <= ?
	`, formatTime(c.now().UTC()))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *ResultCache) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Timestamps are stored with a fixed-width layout so that string comparison
// in SQL orders them chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
