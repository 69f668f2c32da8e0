package tracker_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"pheme/internal/catalog"
	"pheme/internal/change"
	"pheme/internal/identity"
	"pheme/internal/ledger"
	"pheme/internal/logging"
	"pheme/internal/provider"
	"pheme/internal/tracker"
)

type stubProvider struct {
	searchResults []provider.Observation
	searchErr     error
	byLocator     map[string]provider.Observation
	locatorErr    map[string]error
}

func (s *stubProvider) Search(_ context.Context, _ catalog.Category, _ string) ([]provider.Observation, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResults, nil
}

func (s *stubProvider) FetchByLocator(_ context.Context, _ catalog.Category, locator string) (provider.Observation, error) {
	if err := s.locatorErr[locator]; err != nil {
		return provider.Observation{}, err
	}
	obs, ok := s.byLocator[locator]
	if !ok {
		return provider.Observation{}, provider.ErrProvider
	}
	return obs, nil
}

type fixture struct {
	tracker  *tracker.Tracker
	prices   *ledger.Store[ledger.PriceRecord]
	statuses *ledger.Store[ledger.StatusRecord]
	stubs    map[string]*stubProvider
}

func newFixture(t *testing.T) *fixture {
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

	stubs := map[string]*stubProvider{
		"nedgame":    {byLocator: map[string]provider.Observation{}, locatorErr: map[string]error{}},
		"steam":      {byLocator: map[string]provider.Observation{}, locatorErr: map[string]error{}},
		"cardmarket": {byLocator: map[string]provider.Observation{}, locatorErr: map[string]error{}},
		"mangaweb":   {byLocator: map[string]provider.Observation{}, locatorErr: map[string]error{}},
		"animeweb":   {byLocator: map[string]provider.Observation{}, locatorErr: map[string]error{}},
	}
	registry := provider.NewRegistry()
	for key, stub := range stubs {
		registry.Register(key, stub)
	}

	return &fixture{
		tracker:  tracker.New(registry, prices, statuses, logging.NewNop()),
		prices:   prices,
		statuses: statuses,
		stubs:    stubs,
	}
}

func TestTrackPhysicalPersistsUsedTier(t *testing.T) {
	f := newFixture(t)
	f.stubs["nedgame"].searchResults = []provider.Observation{{
		Name:     "Metroid Prime Remastered",
		RawTiers: []string{"New: € 39,99", "Used: € 29,99"},
		Locator:  "https://shop.example/metroid",
	}}

	events, err := f.tracker.Track(context.Background(), catalog.CategoryPhysical, "metroid")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if len(events) != 1 || events[0].Kind != change.KindTracking {
		t.Fatalf("expected a single tracking event, got %+v", events)
	}

	rows, err := f.prices.All(catalog.CategoryPhysical)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].LowestPrice != 29.99 {
		t.Fatalf("used tier should be authoritative, got %v", rows[0].LowestPrice)
	}
	if rows[0].URL != "https://shop.example/metroid" {
		t.Fatalf("locator not pinned: %q", rows[0].URL)
	}
}

func TestTrackAmbiguousCardFailsLoudlyWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	f.stubs["cardmarket"].searchResults = []provider.Observation{{Name: "Dark Magician Girl", RawValue: "0,99 €"}}

	_, err := f.tracker.Track(context.Background(), catalog.CategoryYGO, "Dark Magician")
	if !errors.Is(err, identity.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}

	rows, err := f.prices.All(catalog.CategoryYGO)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("ambiguous search must not write a row, got %+v", rows)
	}
}

func TestTrackWithoutPriceFailsLoudly(t *testing.T) {
	f := newFixture(t)
	f.stubs["nedgame"].searchResults = []provider.Observation{{
		Name:    "Sold Out Game",
		Locator: "https://shop.example/soldout",
	}}

	_, err := f.tracker.Track(context.Background(), catalog.CategoryPhysical, "sold out game")
	if err == nil {
		t.Fatal("expected an error for an item with no price tiers")
	}
	rows, _ := f.prices.All(catalog.CategoryPhysical)
	if len(rows) != 0 {
		t.Fatalf("no row should be written, got %+v", rows)
	}
}

func TestSweepEmitsDecreaseAndUpdatesRow(t *testing.T) {
	f := newFixture(t)
	stub := f.stubs["steam"]
	stub.searchResults = []provider.Observation{{
		Name:     "Hades II",
		RawValue: "29,99€",
		Locator:  "https://store.example/hades2",
	}}
	if _, err := f.tracker.Track(context.Background(), catalog.CategoryDigital, "hades"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	stub.byLocator["https://store.example/hades2"] = provider.Observation{
		Name:     "Hades II",
		RawValue: "19,99€",
		Locator:  "https://store.example/hades2",
	}

	report, err := f.tracker.Sweep(context.Background(), catalog.CategoryDigital)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if report.Checked != 1 || len(report.Skipped) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Events) != 1 || report.Events[0].Kind != change.KindDecrease {
		t.Fatalf("expected one decrease event, got %+v", report.Events)
	}

	rows, _ := f.prices.All(catalog.CategoryDigital)
	if len(rows) != 1 || rows[0].LowestPrice != 19.99 {
		t.Fatalf("row not updated: %+v", rows)
	}
}

func TestSweepSkipsFailingItemAndContinues(t *testing.T) {
	f := newFixture(t)
	stub := f.stubs["steam"]

	stub.searchResults = []provider.Observation{{Name: "Game A", RawValue: "10,00€", Locator: "https://store.example/a"}}
	if _, err := f.tracker.Track(context.Background(), catalog.CategoryDigital, "game a"); err != nil {
		t.Fatalf("Track A: %v", err)
	}
	stub.searchResults = []provider.Observation{{Name: "Game B", RawValue: "20,00€", Locator: "https://store.example/b"}}
	if _, err := f.tracker.Track(context.Background(), catalog.CategoryDigital, "game b"); err != nil {
		t.Fatalf("Track B: %v", err)
	}

	stub.locatorErr["https://store.example/a"] = provider.ErrProvider
	stub.byLocator["https://store.example/b"] = provider.Observation{Name: "Game B", RawValue: "20,00€", Locator: "https://store.example/b"}

	report, err := f.tracker.Sweep(context.Background(), catalog.CategoryDigital)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if report.Checked != 1 {
		t.Fatalf("expected one checked item, got %d", report.Checked)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Name != "Game A" {
		t.Fatalf("expected Game A skipped, got %+v", report.Skipped)
	}

	rows, _ := f.prices.All(catalog.CategoryDigital)
	for _, row := range rows {
		if row.Name == "Game A" && row.LowestPrice != 10.00 {
			t.Fatalf("skipped item's row must stay untouched: %+v", row)
		}
	}
}

func TestSweepStatusChange(t *testing.T) {
	f := newFixture(t)
	stub := f.stubs["mangaweb"]
	stub.searchResults = []provider.Observation{{Name: "Berserk", RawValue: "Chapter 377"}}
	if _, err := f.tracker.Track(context.Background(), catalog.CategoryManga, "Berserk"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	stub.searchResults = []provider.Observation{{Name: "Berserk", RawValue: "Chapter 378"}}
	report, err := f.tracker.Sweep(context.Background(), catalog.CategoryManga)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(report.Events) != 1 || report.Events[0].Kind != change.KindStatus {
		t.Fatalf("expected one status event, got %+v", report.Events)
	}
	if report.Events[0].Noun != "chapter" {
		t.Fatalf("status event should carry the category noun, got %q", report.Events[0].Noun)
	}
}

func TestStopTracking(t *testing.T) {
	f := newFixture(t)
	f.stubs["mangaweb"].searchResults = []provider.Observation{{Name: "Berserk", RawValue: "Chapter 377"}}
	if _, err := f.tracker.Track(context.Background(), catalog.CategoryManga, "Berserk"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	removed, err := f.tracker.StopTracking(catalog.CategoryManga, "berserk")
	if err != nil {
		t.Fatalf("StopTracking: %v", err)
	}
	if removed {
		t.Fatal("name match is exact, lowercase must not remove")
	}

	removed, err = f.tracker.StopTracking(catalog.CategoryManga, "Berserk")
	if err != nil {
		t.Fatalf("StopTracking: %v", err)
	}
	if !removed {
		t.Fatal("exact name should remove the row")
	}
}

func TestListTrackedFormatsPrices(t *testing.T) {
	f := newFixture(t)
	f.stubs["steam"].searchResults = []provider.Observation{{Name: "Hades II", RawValue: "29,99€", Locator: "https://store.example/hades2"}}
	if _, err := f.tracker.Track(context.Background(), catalog.CategoryDigital, "hades"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	items, err := f.tracker.ListTracked(catalog.CategoryDigital)
	if err != nil {
		t.Fatalf("ListTracked: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	if items[0].Value != "29.99€" {
		t.Fatalf("unexpected display value %q", items[0].Value)
	}
	if items[0].URL == "" {
		t.Fatal("locator should be listed")
	}
}
