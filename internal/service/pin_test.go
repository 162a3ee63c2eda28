package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gptdeskapp/gptdesk-server/internal/catalog"
	"github.com/gptdeskapp/gptdesk-server/internal/errors"
	"github.com/gptdeskapp/gptdesk-server/internal/store/sqlite"
)

const (
	testVersion    = "v0.10.0"
	testDefaultPin = "g4"
)

func newTestService(t *testing.T) *PinService {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewPinService(st, catalog.Default(), testVersion, testDefaultPin, logger)
}

func assertCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	var domainErr *errors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, domainErr.Code)
	}
}

func TestTogglePin_RequiresIdentity(t *testing.T) {
	s := newTestService(t)

	_, err := s.TogglePin(context.Background(), "", "g1", true)
	assertCode(t, err, errors.CodeUnauthorized)
}

func TestTogglePin_UnknownItem(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.TogglePin(ctx, "u1", "g999", true)
	assertCode(t, err, errors.CodeNotFound)

	// The store must be untouched.
	entries, err := s.ListCatalog(ctx, "u1", "")
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	for _, e := range entries {
		if e.IsPinned {
			t.Errorf("unexpected pin on %s after failed toggle", e.ID)
		}
	}
}

func TestTogglePin_RoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	res, err := s.TogglePin(ctx, "u1", "g1", true)
	if err != nil {
		t.Fatalf("TogglePin on: %v", err)
	}
	if res.GPTSID != "g1" || !res.IsPinned {
		t.Errorf("unexpected result: %+v", res)
	}

	res, err = s.TogglePin(ctx, "u1", "g1", false)
	if err != nil {
		t.Fatalf("TogglePin off: %v", err)
	}
	if res.IsPinned {
		t.Errorf("unexpected result: %+v", res)
	}

	entries, err := s.ListCatalog(ctx, "u1", "")
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	for _, e := range entries {
		if e.IsPinned {
			t.Errorf("pin for %s survived the round trip", e.ID)
		}
	}
}

func TestGetSidebar_SeedsNewUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sb, err := s.GetSidebar(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSidebar: %v", err)
	}
	if len(sb.Pinned) != 1 {
		t.Fatalf("expected 1 seeded pin, got %d", len(sb.Pinned))
	}
	if sb.Pinned[0].ID != testDefaultPin {
		t.Errorf("expected seeded %s, got %s", testDefaultPin, sb.Pinned[0].ID)
	}
	if sb.Pinned[0].Name == "" {
		t.Error("expected seeded entry to carry the catalog name")
	}
	if sb.Limits.Pinned != LimitPinned {
		t.Errorf("expected limit %d, got %d", LimitPinned, sb.Limits.Pinned)
	}

	// The worked example: unpin the seeded default, sidebar goes empty
	// and no re-seed happens at the same target version.
	if _, err := s.TogglePin(ctx, "u1", testDefaultPin, false); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}
	sb, err = s.GetSidebar(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSidebar after unpin: %v", err)
	}
	if len(sb.Pinned) != 0 {
		t.Errorf("expected empty sidebar, got %+v", sb.Pinned)
	}
}

func TestGetSidebar_SeedNeverOverwritesExistingPin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// User pins the default item themselves before ever loading the sidebar.
	if _, err := s.TogglePin(ctx, "u1", testDefaultPin, true); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}

	sb, err := s.GetSidebar(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSidebar: %v", err)
	}
	if len(sb.Pinned) != 1 {
		t.Fatalf("expected exactly 1 pin, got %d", len(sb.Pinned))
	}
}

func TestGetSidebar_SeedsOncePerVersion(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.GetSidebar(ctx, "u1"); err != nil {
		t.Fatalf("first GetSidebar: %v", err)
	}
	// Unpin the seeded default; a second read at the same target version
	// must not seed again.
	if _, err := s.TogglePin(ctx, "u1", testDefaultPin, false); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}

	sb, err := s.GetSidebar(ctx, "u1")
	if err != nil {
		t.Fatalf("second GetSidebar: %v", err)
	}
	if len(sb.Pinned) != 0 {
		t.Errorf("seeding ran twice at the same version: %+v", sb.Pinned)
	}
}

func TestGetSidebar_ReseedsOnVersionBump(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	old := NewPinService(st, catalog.Default(), "v0.9.0", testDefaultPin, logger)
	ctx := context.Background()

	if _, err := old.GetSidebar(ctx, "u1"); err != nil {
		t.Fatalf("GetSidebar at old version: %v", err)
	}
	if _, err := old.TogglePin(ctx, "u1", testDefaultPin, false); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}

	// Deploy a newer target version over the same store.
	bumped := NewPinService(st, catalog.Default(), "v0.10.0", testDefaultPin, logger)
	sb, err := bumped.GetSidebar(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSidebar at bumped version: %v", err)
	}
	if len(sb.Pinned) != 1 || sb.Pinned[0].ID != testDefaultPin {
		t.Errorf("expected re-seed after version bump, got %+v", sb.Pinned)
	}
}

func TestGetSidebar_CapAndOrder(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// Pin every catalog item with distinct timestamps, most recent last.
	for _, id := range []string{"g1", "g2", "g3", "g4", "g5", "g6"} {
		if _, err := s.TogglePin(ctx, "u1", id, true); err != nil {
			t.Fatalf("TogglePin %s: %v", id, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	sb, err := s.GetSidebar(ctx, "u1")
	if err != nil {
		t.Fatalf("GetSidebar: %v", err)
	}
	if len(sb.Pinned) > LimitPinned {
		t.Fatalf("sidebar exceeded cap: %d entries", len(sb.Pinned))
	}
	if sb.Pinned[0].ID != "g6" {
		t.Errorf("expected most recent pin first, got %s", sb.Pinned[0].ID)
	}
}

func TestGetSidebar_RequiresIdentity(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetSidebar(context.Background(), "")
	assertCode(t, err, errors.CodeUnauthorized)
}

func TestListCatalog(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.TogglePin(ctx, "u1", "g2", true); err != nil {
		t.Fatalf("TogglePin: %v", err)
	}

	entries, err := s.ListCatalog(ctx, "u1", "")
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected all 6 catalog items, got %d", len(entries))
	}
	for _, e := range entries {
		if e.IsPinned != (e.ID == "g2") {
			t.Errorf("item %s: is_pinned = %v", e.ID, e.IsPinned)
		}
	}

	// Query filter narrows by name, case-insensitively.
	entries, err = s.ListCatalog(ctx, "u1", "sql")
	if err != nil {
		t.Fatalf("ListCatalog with query: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "g1" {
		t.Errorf("expected only g1 for query %q, got %+v", "sql", entries)
	}
}

func TestListCatalog_RequiresIdentity(t *testing.T) {
	s := newTestService(t)

	_, err := s.ListCatalog(context.Background(), "", "")
	assertCode(t, err, errors.CodeUnauthorized)
}

func TestHomeCards(t *testing.T) {
	s := newTestService(t)

	home := s.HomeCards()
	if len(home.Favorites) == 0 || len(home.Recommended) == 0 {
		t.Error("expected non-empty home card groups")
	}
}
