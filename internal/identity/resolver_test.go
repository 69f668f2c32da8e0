package identity_test

import (
	"context"
	"errors"
	"testing"

	"pheme/internal/catalog"
	"pheme/internal/identity"
	"pheme/internal/provider"
)

type fakeProvider struct {
	results      []provider.Observation
	byLocator    map[string]provider.Observation
	searchCalls  int
	locatorCalls []string
}

func (f *fakeProvider) Search(_ context.Context, _ catalog.Category, _ string) ([]provider.Observation, error) {
	f.searchCalls++
	return f.results, nil
}

func (f *fakeProvider) FetchByLocator(_ context.Context, _ catalog.Category, locator string) (provider.Observation, error) {
	f.locatorCalls = append(f.locatorCalls, locator)
	obs, ok := f.byLocator[locator]
	if !ok {
		return provider.Observation{}, provider.ErrProvider
	}
	return obs, nil
}

func newRegistry(key string, p provider.Provider) *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(key, p)
	return registry
}

func TestResolvePinnedLocatorSkipsSearch(t *testing.T) {
	fake := &fakeProvider{
		results: []provider.Observation{{Name: "Metroid Prime 4", Locator: "https://shop.example/new"}},
		byLocator: map[string]provider.Observation{
			"https://shop.example/old": {Name: "Metroid Prime", Locator: "https://shop.example/old"},
		},
	}
	resolver := identity.NewResolver(newRegistry("nedgame", fake))

	obs, err := resolver.Resolve(context.Background(), catalog.CategoryPhysical, "Metroid Prime", "https://shop.example/old")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if obs.Name != "Metroid Prime" {
		t.Fatalf("resolved wrong entry: %+v", obs)
	}
	if fake.searchCalls != 0 {
		t.Fatal("pinned item must never re-run name search")
	}
	if len(fake.locatorCalls) != 1 || fake.locatorCalls[0] != "https://shop.example/old" {
		t.Fatalf("unexpected locator calls %v", fake.locatorCalls)
	}
}

func TestResolveFirstTimeBindsTopResult(t *testing.T) {
	fake := &fakeProvider{
		results: []provider.Observation{
			{Name: "Metroid Prime Remastered", Locator: "https://shop.example/a"},
			{Name: "Metroid Dread", Locator: "https://shop.example/b"},
		},
	}
	resolver := identity.NewResolver(newRegistry("nedgame", fake))

	obs, err := resolver.Resolve(context.Background(), catalog.CategoryPhysical, "metroid", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if obs.Locator != "https://shop.example/a" {
		t.Fatalf("expected top result, got %+v", obs)
	}
	if fake.searchCalls != 1 {
		t.Fatalf("expected one search, got %d", fake.searchCalls)
	}
}

func TestResolveCardsRequireExactName(t *testing.T) {
	fake := &fakeProvider{
		results: []provider.Observation{
			{Name: "Dark Magician Girl", RawValue: "0,99 €"},
			{Name: "Dark Magician", RawValue: "0,15 €"},
		},
	}
	resolver := identity.NewResolver(newRegistry("cardmarket", fake))

	obs, err := resolver.Resolve(context.Background(), catalog.CategoryYGO, "Dark Magician", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if obs.Name != "Dark Magician" || obs.RawValue != "0,15 €" {
		t.Fatalf("exact filter picked %+v", obs)
	}
}

func TestResolveAmbiguousWhenNothingMatches(t *testing.T) {
	fake := &fakeProvider{
		results: []provider.Observation{{Name: "Dark Magician Girl"}},
	}
	resolver := identity.NewResolver(newRegistry("cardmarket", fake))

	_, err := resolver.Resolve(context.Background(), catalog.CategoryYGO, "Dark Magician", "")
	if !errors.Is(err, identity.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous, got %v", err)
	}

	fake.results = nil
	if _, err := resolver.Resolve(context.Background(), catalog.CategoryMTG, "Black Lotus", ""); !errors.Is(err, identity.ErrAmbiguous) {
		t.Fatalf("expected ErrAmbiguous for empty result set, got %v", err)
	}
}
