package normalize_test

import (
	"errors"
	"testing"

	"pheme/internal/catalog"
	"pheme/internal/normalize"
	"pheme/internal/provider"
)

func TestAmountLocaleFormats(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"0,15 €", 0.15},
		{"24,99€", 24.99},
		{"€ 59,99", 59.99},
		{"€ 59,-", 59.00},
		{"1.234,56 €", 1234.56},
		{"39.99", 39.99},
		{"Free", 0},
		{"Free To Play", 0},
	}
	for _, tc := range cases {
		got, err := normalize.Amount(tc.raw)
		if err != nil {
			t.Errorf("Amount(%q) failed: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Amount(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestAmountRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "TBA", "€ soon"} {
		if _, err := normalize.Amount(raw); err == nil {
			t.Errorf("Amount(%q) should fail", raw)
		}
	}
}

func TestAmountFormatRoundTrip(t *testing.T) {
	for _, raw := range []string{"0,15 €", "24,99€", "€ 59,-", "1.234,56 €"} {
		value, err := normalize.Amount(raw)
		if err != nil {
			t.Fatalf("Amount(%q) failed: %v", raw, err)
		}
		again, err := normalize.Amount(normalize.FormatAmount(value))
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", normalize.FormatAmount(value), err)
		}
		if again != value {
			t.Errorf("%q: round trip drifted from %v to %v", raw, value, again)
		}
	}
}

func TestPricePhysicalTierSelection(t *testing.T) {
	cases := []struct {
		name  string
		tiers []string
		want  float64
	}{
		{"single new tier", []string{"New: € 59,99"}, 59.99},
		{"used tier wins", []string{"New: € 39,99", "Used: € 29,99"}, 29.99},
		{"dash cents", []string{"New: € 60,-"}, 60.00},
	}
	for _, tc := range cases {
		got, err := normalize.Price(catalog.CategoryPhysical, provider.Observation{RawTiers: tc.tiers})
		if err != nil {
			t.Errorf("%s: Price failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: Price = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPricePhysicalWithoutTiersFails(t *testing.T) {
	_, err := normalize.Price(catalog.CategoryPhysical, provider.Observation{})
	var normErr *normalize.Error
	if !errors.As(err, &normErr) {
		t.Fatalf("expected *normalize.Error, got %v", err)
	}
}

func TestPriceDigitalFreeSentinel(t *testing.T) {
	got, err := normalize.Price(catalog.CategoryDigital, provider.Observation{RawValue: "Free To Play"})
	if err != nil {
		t.Fatalf("Price failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("free game should normalize to 0, got %v", got)
	}
}

func TestPriceRejectsStatusCategory(t *testing.T) {
	if _, err := normalize.Price(catalog.CategoryAnime, provider.Observation{RawValue: "Ep 12"}); err == nil {
		t.Fatal("expected error for status-ledger category")
	}
}

func TestStatusPassesThrough(t *testing.T) {
	got, err := normalize.Status(provider.Observation{RawValue: "  Chapter 374 "})
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if got != "Chapter 374" {
		t.Fatalf("unexpected status %q", got)
	}

	if _, err := normalize.Status(provider.Observation{}); err == nil {
		t.Fatal("empty status should fail")
	}
}
