package daemon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pheme/internal/catalog"
	"pheme/internal/journal"
	"pheme/internal/ledger"
	"pheme/internal/logging"
	"pheme/internal/notifications"
	"pheme/internal/provider"
	"pheme/internal/testsupport"
	"pheme/internal/tracker"
)

type scriptedProvider struct {
	results []provider.Observation
}

func (s *scriptedProvider) Search(context.Context, catalog.Category, string) ([]provider.Observation, error) {
	return s.results, nil
}

func (s *scriptedProvider) FetchByLocator(context.Context, catalog.Category, string) (provider.Observation, error) {
	return provider.Observation{}, provider.ErrLocatorUnsupported
}

func newTracker(t *testing.T, registry *provider.Registry) *tracker.Tracker {
	t.Helper()
	dir := t.TempDir()
	prices, err := ledger.OpenPrice(filepath.Join(dir, "price_tracker.csv"))
	if err != nil {
		t.Fatalf("open price ledger: %v", err)
	}
	statuses, err := ledger.OpenStatus(filepath.Join(dir, "status_tracker.csv"))
	if err != nil {
		t.Fatalf("open status ledger: %v", err)
	}
	return tracker.New(registry, prices, statuses, logging.NewNop())
}

func TestSweeperJournalsAndNotifies(t *testing.T) {
	var notified []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		notified = append(notified, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	stub := &scriptedProvider{results: []provider.Observation{{Name: "Berserk", RawValue: "Chapter 377"}}}
	registry := provider.NewRegistry()
	registry.Register("mangaweb", stub)
	registry.Register("animeweb", &scriptedProvider{})
	tr := newTracker(t, registry)

	if _, err := tr.Track(context.Background(), catalog.CategoryManga, "Berserk"); err != nil {
		t.Fatalf("Track: %v", err)
	}
	stub.results = []provider.Observation{{Name: "Berserk", RawValue: "Chapter 378"}}

	jr, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer jr.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	notifier := notifications.NewService(cfg)

	sweeper := NewSweeper(tr, jr, notifier, logging.NewNop())
	if err := sweeper.RunLedger(context.Background(), catalog.LedgerStatus); err != nil {
		t.Fatalf("RunLedger: %v", err)
	}

	if len(notified) != 1 {
		t.Fatalf("expected one notification, got %v", notified)
	}
	if notified[0] != "There is a new chapter of Berserk! The status CHANGED from Chapter 377 to Chapter 378." {
		t.Fatalf("unexpected message %q", notified[0])
	}

	runs, err := jr.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	// Both status categories swept, one run each.
	if len(runs) != 2 {
		t.Fatalf("expected two journaled runs, got %d", len(runs))
	}
}

func TestDaemonSingleInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	notifier := notifications.NewService(cfg)
	tr := newTracker(t, provider.NewRegistry())
	sweeper := NewSweeper(tr, nil, notifier, logging.NewNop())

	first, err := New(cfg, sweeper, notifier, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(cfg, sweeper, notifier, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second instance must fail to start while the first holds the lock")
	}

	first.Stop()
	if first.Running() {
		t.Fatal("daemon should report stopped")
	}

	if err := second.Start(context.Background()); err != nil {
		t.Fatalf("second Start after release: %v", err)
	}
	second.Stop()
}

func TestKeepaliveEndpoints(t *testing.T) {
	k := newKeepalive("127.0.0.1:0", logging.NewNop())
	for _, path := range []string{"/", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		k.server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
		if rec.Body.String() != "ok\n" {
			t.Fatalf("%s body %q", path, rec.Body.String())
		}
	}
}

func TestNextBirthdayRun(t *testing.T) {
	now := time.Date(2026, time.March, 14, 8, 30, 0, 0, time.UTC)

	next := nextBirthdayRun(now, 9)
	if next.Day() != 14 || next.Hour() != 9 {
		t.Fatalf("expected same-day 09:00, got %v", next)
	}

	next = nextBirthdayRun(now, 8)
	if next.Day() != 15 || next.Hour() != 8 {
		t.Fatalf("expected next-day 08:00, got %v", next)
	}
}
