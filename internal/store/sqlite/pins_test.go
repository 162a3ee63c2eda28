package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestUpsertPin_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	if err := s.UpsertPin(ctx, "u1", "g1", t1); err != nil {
		t.Fatalf("UpsertPin: %v", err)
	}
	if err := s.UpsertPin(ctx, "u1", "g1", t2); err != nil {
		t.Fatalf("UpsertPin again: %v", err)
	}

	pins, err := s.ListPins(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	if len(pins) != 1 {
		t.Fatalf("expected 1 row after re-pin, got %d", len(pins))
	}
	if !pins[0].PinnedAt.Equal(t2) {
		t.Errorf("expected latest timestamp %v, got %v", t2, pins[0].PinnedAt)
	}
}

func TestDeletePin_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpsertPin(ctx, "u1", "g1", time.Now()); err != nil {
		t.Fatalf("UpsertPin: %v", err)
	}
	if err := s.DeletePin(ctx, "u1", "g1"); err != nil {
		t.Fatalf("DeletePin: %v", err)
	}

	// Deleting again, or deleting something never pinned, is not an error.
	if err := s.DeletePin(ctx, "u1", "g1"); err != nil {
		t.Errorf("second DeletePin: %v", err)
	}
	if err := s.DeletePin(ctx, "u1", "never-pinned"); err != nil {
		t.Errorf("DeletePin of absent row: %v", err)
	}

	pins, err := s.ListPins(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	if len(pins) != 0 {
		t.Errorf("expected no pins, got %d", len(pins))
	}
}

func TestListPins_OrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("g%d", i+1)
		if err := s.UpsertPin(ctx, "u1", id, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("UpsertPin %s: %v", id, err)
		}
	}
	// Another user's pins must not leak in.
	if err := s.UpsertPin(ctx, "u2", "g9", base.Add(time.Hour)); err != nil {
		t.Fatalf("UpsertPin u2: %v", err)
	}

	pins, err := s.ListPins(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	if len(pins) != 3 {
		t.Fatalf("expected 3 pins, got %d", len(pins))
	}
	want := []string{"g5", "g4", "g3"}
	for i, w := range want {
		if pins[i].GPTID != w {
			t.Errorf("pins[%d]: got %s, want %s", i, pins[i].GPTID, w)
		}
	}
}

func TestListPins_TieBreakByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"gb", "ga", "gc"} {
		if err := s.UpsertPin(ctx, "u1", id, at); err != nil {
			t.Fatalf("UpsertPin %s: %v", id, err)
		}
	}

	pins, err := s.ListPins(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	want := []string{"ga", "gb", "gc"}
	for i, w := range want {
		if pins[i].GPTID != w {
			t.Errorf("pins[%d]: got %s, want %s", i, pins[i].GPTID, w)
		}
	}
}

func TestListPins_Empty(t *testing.T) {
	s := newTestStore(t)

	pins, err := s.ListPins(context.Background(), "nobody", 8)
	if err != nil {
		t.Fatalf("ListPins: %v", err)
	}
	if pins == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(pins) != 0 {
		t.Errorf("expected no pins, got %d", len(pins))
	}
}

func TestListPinnedIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for _, id := range []string{"g1", "g3"} {
		if err := s.UpsertPin(ctx, "u1", id, now); err != nil {
			t.Fatalf("UpsertPin %s: %v", id, err)
		}
	}

	ids, err := s.ListPinnedIDs(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPinnedIDs: %v", err)
	}
	if len(ids) != 2 || !ids["g1"] || !ids["g3"] {
		t.Errorf("unexpected pinned set: %v", ids)
	}

	ids, err = s.ListPinnedIDs(ctx, "stranger")
	if err != nil {
		t.Fatalf("ListPinnedIDs stranger: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty set for unknown user, got %v", ids)
	}
}
