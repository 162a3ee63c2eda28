package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/gptdeskapp/gptdesk-server/internal/domain"
)

// UpsertPin inserts or refreshes the pin timestamp for (userID, gptID).
// Repeated calls leave exactly one row carrying the latest timestamp.
func (s *Store) UpsertPin(ctx context.Context, userID, gptID string, pinnedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_gpts_state (user_id, gpts_id, pinned_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, gpts_id) DO UPDATE SET
			pinned_at = excluded.pinned_at`,
		userID,
		gptID,
		formatTime(pinnedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert pin: %w", err)
	}
	return nil
}

// DeletePin removes the pin for (userID, gptID) if present.
// Deleting an absent pin is not an error.
func (s *Store) DeletePin(ctx context.Context, userID, gptID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_gpts_state WHERE user_id = ? AND gpts_id = ?`,
		userID, gptID)
	if err != nil {
		return fmt.Errorf("delete pin: %w", err)
	}
	return nil
}

// ListPins returns up to limit pins for the user, most recently pinned
// first. Equal timestamps are broken by gpts_id ascending so the order
// is stable across restarts.
func (s *Store) ListPins(ctx context.Context, userID string, limit int) ([]*domain.Pin, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gpts_id, pinned_at
		FROM user_gpts_state
		WHERE user_id = ?
		ORDER BY pinned_at DESC, gpts_id ASC
		LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query pins: %w", err)
	}
	defer rows.Close()

	var pins []*domain.Pin
	for rows.Next() {
		var (
			gptID    string
			pinnedAt string
		)
		if err := rows.Scan(&gptID, &pinnedAt); err != nil {
			return nil, fmt.Errorf("scan pin: %w", err)
		}
		t, err := parseTime(pinnedAt)
		if err != nil {
			return nil, fmt.Errorf("parse pinned_at: %w", err)
		}
		pins = append(pins, &domain.Pin{
			UserID:   userID,
			GPTID:    gptID,
			PinnedAt: t,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	if pins == nil {
		pins = []*domain.Pin{}
	}

	return pins, nil
}

// ListPinnedIDs returns the full unordered set of GPT ids pinned by the user.
func (s *Store) ListPinnedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT gpts_id FROM user_gpts_state WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("query pinned ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var gptID string
		if err := rows.Scan(&gptID); err != nil {
			return nil, fmt.Errorf("scan pinned id: %w", err)
		}
		ids[gptID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return ids, nil
}
