package main

import (
	"strings"
	"testing"

	"pheme/internal/catalog"
)

func TestLedgerLayoutMatchesLedgerColumns(t *testing.T) {
	price := ledgerLayout(catalog.LedgerPrice)
	if len(price.headers) != 5 || price.headers[4] != "URL" {
		t.Fatalf("unexpected price headers %v", price.headers)
	}
	if price.aligns[1] != alignRight {
		t.Fatal("price column should be right-aligned")
	}

	status := ledgerLayout(catalog.LedgerStatus)
	if len(status.headers) != 3 {
		t.Fatalf("unexpected status headers %v", status.headers)
	}
	for _, h := range status.headers {
		if h == "URL" {
			t.Fatal("status rows have no locator column")
		}
	}
}

func TestSearchLayoutLabelsValueColumn(t *testing.T) {
	if got := searchLayout(catalog.LedgerPrice).headers[1]; got != "Price" {
		t.Fatalf("price search header = %q", got)
	}
	if got := searchLayout(catalog.LedgerStatus).headers[1]; got != "Latest" {
		t.Fatalf("status search header = %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(historyLayout(), [][]string{{"2026-08-28 09:00", "manga"}})
	if !strings.Contains(out, "2026-08-28 09:00") || !strings.Contains(out, "Skipped") {
		t.Fatalf("unexpected render output:\n%s", out)
	}
}
