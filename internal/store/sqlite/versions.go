package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gptdeskapp/gptdesk-server/internal/store"
)

// GetConfigVersion returns the user's seed-version marker.
// Returns store.ErrNotFound if the user has never been seeded.
func (s *Store) GetConfigVersion(ctx context.Context, userID string) (string, error) {
	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM user_config_version WHERE user_id = ?`, userID).
		Scan(&version)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query config version: %w", err)
	}
	return version, nil
}

// SetConfigVersion upserts the user's seed-version marker.
func (s *Store) SetConfigVersion(ctx context.Context, userID, version string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_config_version (user_id, version)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET version = excluded.version`,
		userID, version)
	if err != nil {
		return fmt.Errorf("upsert config version: %w", err)
	}
	return nil
}

// SeedDefaults applies the one-time-per-version seed for a user: it
// inserts the default pin only if absent and upserts the version marker.
// Both statements are conflict-tolerant, so concurrent first requests
// from the same user may run this redundantly without visible errors,
// and an existing pin is never overwritten.
func (s *Store) SeedDefaults(ctx context.Context, userID, gptID, version string, pinnedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_gpts_state (user_id, gpts_id, pinned_at)
		VALUES (?, ?, ?)`,
		userID, gptID, formatTime(pinnedAt))
	if err != nil {
		return fmt.Errorf("seed default pin: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_config_version (user_id, version)
		VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET version = excluded.version`,
		userID, version)
	if err != nil {
		return fmt.Errorf("seed version marker: %w", err)
	}

	return tx.Commit()
}
