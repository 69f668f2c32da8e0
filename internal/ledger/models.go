package ledger

import (
	"fmt"
	"strings"
	"time"

	"pheme/internal/catalog"
	"pheme/internal/normalize"
)

// DateLayout is the timestamp format persisted in ledger rows.
const DateLayout = "01/02/2006, 15:04:05"

// Record is implemented by both ledger row schemas. Identity returns the key
// that deduplicates rows within a category: the stored locator for
// locator-strategy categories, the display name otherwise.
type Record interface {
	Identity() string
	RecordCategory() catalog.Category
	DisplayName() string
	CheckedAt() time.Time
}

// PriceRecord is one row of the price ledger.
type PriceRecord struct {
	Name        string
	Category    catalog.Category
	LowestPrice float64
	// Expansion is display-only card metadata; never used for identity or
	// comparison.
	Expansion   string
	DateChecked time.Time
	URL         string
}

// Identity returns the deduplication key for the row.
func (r PriceRecord) Identity() string {
	spec, ok := catalog.Lookup(r.Category)
	if ok && spec.Identity == catalog.IdentityLocator {
		return r.URL
	}
	return r.Name
}

func (r PriceRecord) RecordCategory() catalog.Category { return r.Category }

func (r PriceRecord) DisplayName() string { return r.Name }

func (r PriceRecord) CheckedAt() time.Time { return r.DateChecked }

// StatusRecord is one row of the status ledger.
type StatusRecord struct {
	Name        string
	Category    catalog.Category
	Status      string
	DateChecked time.Time
}

// Identity returns the deduplication key for the row. Series are always
// keyed by display name.
func (r StatusRecord) Identity() string { return r.Name }

func (r StatusRecord) RecordCategory() catalog.Category { return r.Category }

func (r StatusRecord) DisplayName() string { return r.Name }

func (r StatusRecord) CheckedAt() time.Time { return r.DateChecked }

// Schema describes how one record type maps onto its flat table.
type Schema[T Record] struct {
	Header []string
	Encode func(T) []string
	Decode func([]string) (T, error)
}

// PriceSchema is the persisted layout of the price ledger.
func PriceSchema() Schema[PriceRecord] {
	return Schema[PriceRecord]{
		Header: []string{"Name", "Category", "Lowest_Price", "Expansion", "DateChecked", "URL"},
		Encode: func(r PriceRecord) []string {
			return []string{
				r.Name,
				string(r.Category),
				normalize.FormatAmount(r.LowestPrice),
				r.Expansion,
				r.DateChecked.Format(DateLayout),
				r.URL,
			}
		},
		Decode: func(fields []string) (PriceRecord, error) {
			if len(fields) != 6 {
				return PriceRecord{}, fmt.Errorf("price row has %d columns, want 6", len(fields))
			}
			category, ok := catalog.Parse(fields[1])
			if !ok {
				return PriceRecord{}, fmt.Errorf("price row has unknown category %q", fields[1])
			}
			amount, err := normalize.Amount(fields[2])
			if err != nil {
				return PriceRecord{}, fmt.Errorf("price row value: %w", err)
			}
			checked, err := parseDate(fields[4])
			if err != nil {
				return PriceRecord{}, err
			}
			return PriceRecord{
				Name:        fields[0],
				Category:    category,
				LowestPrice: amount,
				Expansion:   fields[3],
				DateChecked: checked,
				URL:         fields[5],
			}, nil
		},
	}
}

// StatusSchema is the persisted layout of the status ledger.
func StatusSchema() Schema[StatusRecord] {
	return Schema[StatusRecord]{
		Header: []string{"Name", "Category", "Status", "DateChecked"},
		Encode: func(r StatusRecord) []string {
			return []string{
				r.Name,
				string(r.Category),
				r.Status,
				r.DateChecked.Format(DateLayout),
			}
		},
		Decode: func(fields []string) (StatusRecord, error) {
			if len(fields) != 4 {
				return StatusRecord{}, fmt.Errorf("status row has %d columns, want 4", len(fields))
			}
			category, ok := catalog.Parse(fields[1])
			if !ok {
				return StatusRecord{}, fmt.Errorf("status row has unknown category %q", fields[1])
			}
			checked, err := parseDate(fields[3])
			if err != nil {
				return StatusRecord{}, err
			}
			return StatusRecord{
				Name:        fields[0],
				Category:    category,
				Status:      fields[2],
				DateChecked: checked,
			}, nil
		},
	}
}

func parseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	checked, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("row date %q: %w", value, err)
	}
	return checked, nil
}
