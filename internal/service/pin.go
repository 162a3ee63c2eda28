// Package service contains the business logic for the GPTDesk server.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/gptdeskapp/gptdesk-server/internal/catalog"
	"github.com/gptdeskapp/gptdesk-server/internal/domain"
	"github.com/gptdeskapp/gptdesk-server/internal/errors"
	"github.com/gptdeskapp/gptdesk-server/internal/store"
)

// LimitPinned caps how many pinned entries the sidebar returns.
// The cap applies only at read time; users may pin more than this.
const LimitPinned = 8

// PinService orchestrates pin state: toggling, sidebar projection,
// catalog annotation, and the version-gated seeding migration.
type PinService struct {
	store        store.Store
	catalog      *catalog.Catalog
	version      string
	target       domain.ConfigVersion
	defaultPinID string
	logger       *slog.Logger
}

// NewPinService creates a new pin service. configVersion is the
// process-wide seed target; defaultPinID is the GPT pinned for users
// whose stored version is behind it.
func NewPinService(st store.Store, cat *catalog.Catalog, configVersion, defaultPinID string, logger *slog.Logger) *PinService {
	return &PinService{
		store:        st,
		catalog:      cat,
		version:      configVersion,
		target:       domain.ParseConfigVersion(configVersion),
		defaultPinID: defaultPinID,
		logger:       logger,
	}
}

// ToggleResult echoes the outcome of a pin toggle.
type ToggleResult struct {
	GPTSID   string `json:"gpts_id"`
	IsPinned bool   `json:"is_pinned"`
}

// SidebarEntry is a pinned catalog item projected for the sidebar.
type SidebarEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SidebarLimits carries the read-time caps applied to the sidebar.
type SidebarLimits struct {
	Pinned int `json:"pinned"`
}

// Sidebar is the capped, most-recent-first pinned list plus its limits.
type Sidebar struct {
	Pinned []SidebarEntry `json:"pinned"`
	Limits SidebarLimits  `json:"limits"`
}

// CatalogEntry is a catalog item annotated with the caller's pin state.
type CatalogEntry struct {
	domain.GPT
	IsPinned bool `json:"is_pinned"`
}

// TogglePin pins or unpins a catalog item for the caller.
// The item must exist in the catalog; unpinning an item that was never
// pinned succeeds (idempotent delete).
func (s *PinService) TogglePin(ctx context.Context, userID, gptID string, wantPinned bool) (*ToggleResult, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Missing X-User-ID")
	}
	if _, ok := s.catalog.Get(gptID); !ok {
		return nil, errors.NotFound("GPTS not found or not visible")
	}

	if wantPinned {
		if err := s.store.UpsertPin(ctx, userID, gptID, time.Now().UTC()); err != nil {
			return nil, err
		}
	} else {
		if err := s.store.DeletePin(ctx, userID, gptID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("pin toggled",
		"user_id", userID,
		"gpts_id", gptID,
		"is_pinned", wantPinned,
	)

	return &ToggleResult{GPTSID: gptID, IsPinned: wantPinned}, nil
}

// GetSidebar runs the seeding transition if due, then returns up to
// LimitPinned most-recently-pinned catalog entries, most recent first.
// Pinned ids the catalog no longer recognizes are silently dropped.
func (s *PinService) GetSidebar(ctx context.Context, userID string) (*Sidebar, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Missing X-User-ID")
	}

	if err := s.seedIfDue(ctx, userID); err != nil {
		return nil, err
	}

	pins, err := s.store.ListPins(ctx, userID, LimitPinned)
	if err != nil {
		return nil, err
	}

	entries := []SidebarEntry{}
	for _, p := range pins {
		g, ok := s.catalog.Get(p.GPTID)
		if !ok {
			continue
		}
		entries = append(entries, SidebarEntry{ID: g.ID, Name: g.Name})
	}

	return &Sidebar{Pinned: entries, Limits: SidebarLimits{Pinned: LimitPinned}}, nil
}

// ListCatalog returns every catalog item annotated with the caller's
// pin state, optionally filtered by a case-insensitive name substring.
func (s *PinService) ListCatalog(ctx context.Context, userID, query string) ([]CatalogEntry, error) {
	if userID == "" {
		return nil, errors.Unauthorized("Missing X-User-ID")
	}

	pinned, err := s.store.ListPinnedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := s.catalog.Filter(query)
	entries := make([]CatalogEntry, len(items))
	for i, g := range items {
		entries[i] = CatalogEntry{GPT: g, IsPinned: pinned[g.ID]}
	}
	return entries, nil
}

// HomeCards returns the static curated card groups.
// No caller identity is required and the store is never touched.
func (s *PinService) HomeCards() domain.HomeCards {
	return s.catalog.HomeCards()
}

// seedIfDue applies the version-gated seed when the user's stored
// version is absent, malformed, or behind the target. The store-level
// seed is conflict-tolerant, so racing first requests are safe.
func (s *PinService) seedIfDue(ctx context.Context, userID string) error {
	stored, err := s.store.GetConfigVersion(ctx, userID)
	switch {
	case err == nil:
		if !domain.ParseConfigVersion(stored).Less(s.target) {
			return nil
		}
	case errors.Is(err, store.ErrNotFound):
		// Never seeded.
	default:
		return err
	}

	if err := s.store.SeedDefaults(ctx, userID, s.defaultPinID, s.version, time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info("seeded default pin",
		"user_id", userID,
		"gpts_id", s.defaultPinID,
		"config_version", s.version,
	)
	return nil
}
