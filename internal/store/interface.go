package store

import (
	"context"
	"time"

	"github.com/gptdeskapp/gptdesk-server/internal/domain"
)

// Store is the persistence interface for pin state and per-user
// config-version markers. Every write is a single store-native atomic
// statement; SeedDefaults is the one two-statement sequence and is safe
// to run redundantly.
type Store interface {
	// UpsertPin inserts or refreshes the pin timestamp for (userID, gptID).
	UpsertPin(ctx context.Context, userID, gptID string, pinnedAt time.Time) error

	// DeletePin removes the pin if present. Deleting an absent pin is not an error.
	DeletePin(ctx context.Context, userID, gptID string) error

	// ListPins returns up to limit pins for the user, most recent first,
	// ties broken by gpts_id ascending.
	ListPins(ctx context.Context, userID string, limit int) ([]*domain.Pin, error)

	// ListPinnedIDs returns the full unordered set of pinned GPT ids.
	ListPinnedIDs(ctx context.Context, userID string) (map[string]bool, error)

	// GetConfigVersion returns the user's seed-version marker, or
	// ErrNotFound if the user has never been seeded.
	GetConfigVersion(ctx context.Context, userID string) (string, error)

	// SetConfigVersion upserts the user's seed-version marker.
	SetConfigVersion(ctx context.Context, userID, version string) error

	// SeedDefaults inserts the default pin if absent (never overwriting an
	// existing pin) and upserts the version marker, in one transaction.
	SeedDefaults(ctx context.Context, userID, gptID, version string, pinnedAt time.Time) error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	Close() error
}
