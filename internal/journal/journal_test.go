package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pheme/internal/catalog"
	"pheme/internal/change"
	"pheme/internal/journal"
	"pheme/internal/tracker"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndReadBack(t *testing.T) {
	store := openStore(t)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runID, err := store.Record(context.Background(), tracker.SweepReport{
		Category:   catalog.CategoryDigital,
		StartedAt:  started,
		FinishedAt: started.Add(40 * time.Second),
		Checked:    4,
		Events:     []change.Event{{Kind: change.KindDecrease, Name: "Hades II"}},
		Skipped: []tracker.SkippedItem{
			{Name: "Game A", Reason: "provider error: store returned 502"},
		},
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if runID == "" {
		t.Fatal("run ID should not be empty")
	}

	runs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.ID != runID || run.Category != catalog.CategoryDigital {
		t.Fatalf("unexpected run %+v", run)
	}
	if run.Checked != 4 || run.Events != 1 || run.Skipped != 1 {
		t.Fatalf("unexpected counters %+v", run)
	}
	if !run.StartedAt.Equal(started) {
		t.Fatalf("start time round trip: %v", run.StartedAt)
	}

	skips, err := store.Skips(context.Background(), runID)
	if err != nil {
		t.Fatalf("Skips: %v", err)
	}
	if len(skips) != 1 || skips[0].Item != "Game A" {
		t.Fatalf("unexpected skips %+v", skips)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		started := base.Add(time.Duration(i) * time.Hour)
		_, err := store.Record(context.Background(), tracker.SweepReport{
			Category:   catalog.CategoryManga,
			StartedAt:  started,
			FinishedAt: started.Add(time.Minute),
		})
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}

	runs, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not honored, got %d runs", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("runs not newest first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if _, err := store.Record(context.Background(), tracker.SweepReport{
		Category:   catalog.CategoryAnime,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := journal.Open(path)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected the recorded run to survive reopen, got %d", len(runs))
	}
}
