package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pheme/internal/catalog"
	"pheme/internal/change"
	"pheme/internal/identity"
	"pheme/internal/ledger"
	"pheme/internal/logging"
	"pheme/internal/normalize"
	"pheme/internal/provider"
)

// Tracker runs the resolve, normalize, persist, classify cycle over both
// ledger tables.
type Tracker struct {
	logger   *slog.Logger
	registry *provider.Registry
	resolver *identity.Resolver
	prices   *ledger.Store[ledger.PriceRecord]
	statuses *ledger.Store[ledger.StatusRecord]
	now      func() time.Time
}

// New builds a tracker over the provider registry and the two ledger stores.
func New(registry *provider.Registry, prices *ledger.Store[ledger.PriceRecord], statuses *ledger.Store[ledger.StatusRecord], logger *slog.Logger) *Tracker {
	return &Tracker{
		logger:   logging.NewComponentLogger(logger, "tracker"),
		registry: registry,
		resolver: identity.NewResolver(registry),
		prices:   prices,
		statuses: statuses,
		now:      time.Now,
	}
}

// TrackedItem is one ledger row flattened for display, independent of which
// table it came from.
type TrackedItem struct {
	Name      string
	Category  catalog.Category
	Value     string
	Expansion string
	URL       string
	CheckedAt time.Time
}

// SkippedItem records one item a sweep could not check, with the reason the
// journal and logs carry.
type SkippedItem struct {
	Name   string
	Reason string
}

// SweepReport summarizes one category sweep.
type SweepReport struct {
	Category   catalog.Category
	StartedAt  time.Time
	FinishedAt time.Time
	Checked    int
	Events     []change.Event
	Skipped    []SkippedItem
}

// Track registers an item for tracking, or re-checks it when already
// tracked, and returns the change events the check produced. Every failure
// surfaces: the caller asked for this item by name and expects an answer.
func (t *Tracker) Track(ctx context.Context, category catalog.Category, search string) ([]change.Event, error) {
	spec, ok := catalog.Lookup(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q, valid choices are %s", category, catalog.ValidChoices())
	}

	obs, err := t.resolver.Resolve(ctx, category, search, "")
	if err != nil {
		return nil, fmt.Errorf("track %q: %w", search, err)
	}

	var events []change.Event
	switch spec.Ledger {
	case catalog.LedgerPrice:
		price, err := normalize.Price(category, obs)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", search, err)
		}
		prev, err := t.prices.Upsert(ledger.PriceRecord{
			Name:        obs.Name,
			Category:    category,
			LowestPrice: price,
			Expansion:   obs.Aux,
			DateChecked: t.now(),
			URL:         obs.Locator,
		})
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", search, err)
		}
		var previous *float64
		if prev.Found {
			previous = &prev.Record.LowestPrice
		}
		events = change.Price(obs.Name, previous, price, normalize.Discount(obs))
	case catalog.LedgerStatus:
		status, err := normalize.Status(obs)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", search, err)
		}
		prev, err := t.statuses.Upsert(ledger.StatusRecord{
			Name:        obs.Name,
			Category:    category,
			Status:      status,
			DateChecked: t.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", search, err)
		}
		var previous *string
		if prev.Found {
			previous = &prev.Record.Status
		}
		events = change.Status(obs.Name, spec.Noun, previous, status)
	}

	t.logger.Info("tracked item",
		logging.Args(
			logging.String(logging.FieldCategory, string(category)),
			logging.String(logging.FieldItem, obs.Name),
		)...)
	return events, nil
}

// Sweep re-checks every tracked item in one category, in ledger order. Items
// that cannot be checked are reported as skipped; their ledger rows are left
// untouched and the sweep continues.
func (t *Tracker) Sweep(ctx context.Context, category catalog.Category) (SweepReport, error) {
	spec, ok := catalog.Lookup(category)
	if !ok {
		return SweepReport{}, fmt.Errorf("unknown category %q", category)
	}

	report := SweepReport{Category: category, StartedAt: t.now()}
	var err error
	switch spec.Ledger {
	case catalog.LedgerPrice:
		err = t.sweepPrices(ctx, category, &report)
	case catalog.LedgerStatus:
		err = t.sweepStatuses(ctx, category, spec.Noun, &report)
	}
	report.FinishedAt = t.now()
	if err != nil {
		return report, err
	}

	t.logger.Info("sweep finished",
		logging.Args(
			logging.String(logging.FieldCategory, string(category)),
			logging.Int("checked", report.Checked),
			logging.Int("events", len(report.Events)),
			logging.Int("skipped", len(report.Skipped)),
		)...)
	return report, nil
}

func (t *Tracker) sweepPrices(ctx context.Context, category catalog.Category, report *SweepReport) error {
	rows, err := t.prices.All(category)
	if err != nil {
		return fmt.Errorf("sweep %s: %w", category, err)
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		obs, err := t.resolver.Resolve(ctx, category, row.Name, row.URL)
		if err != nil {
			t.skip(report, row.Name, err)
			continue
		}
		price, err := normalize.Price(category, obs)
		if err != nil {
			t.skip(report, row.Name, err)
			continue
		}

		updated := row
		updated.LowestPrice = price
		updated.DateChecked = t.now()
		if obs.Aux != "" {
			updated.Expansion = obs.Aux
		}
		if row.URL == "" && obs.Locator != "" {
			updated.URL = obs.Locator
		}
		if _, err := t.prices.Upsert(updated); err != nil {
			t.skip(report, row.Name, err)
			continue
		}
		report.Checked++
		report.Events = append(report.Events, change.Price(row.Name, &row.LowestPrice, price, normalize.Discount(obs))...)
	}
	return nil
}

func (t *Tracker) sweepStatuses(ctx context.Context, category catalog.Category, noun string, report *SweepReport) error {
	rows, err := t.statuses.All(category)
	if err != nil {
		return fmt.Errorf("sweep %s: %w", category, err)
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		obs, err := t.resolver.Resolve(ctx, category, row.Name, "")
		if err != nil {
			t.skip(report, row.Name, err)
			continue
		}
		status, err := normalize.Status(obs)
		if err != nil {
			t.skip(report, row.Name, err)
			continue
		}

		updated := row
		updated.Status = status
		updated.DateChecked = t.now()
		if _, err := t.statuses.Upsert(updated); err != nil {
			t.skip(report, row.Name, err)
			continue
		}
		report.Checked++
		report.Events = append(report.Events, change.Status(row.Name, noun, &row.Status, status)...)
	}
	return nil
}

func (t *Tracker) skip(report *SweepReport, name string, err error) {
	report.Skipped = append(report.Skipped, SkippedItem{Name: name, Reason: err.Error()})
	t.logger.Warn("item skipped",
		logging.Args(
			logging.String(logging.FieldCategory, string(report.Category)),
			logging.String(logging.FieldItem, name),
			logging.Error(err),
		)...)
}

// StopTracking removes one item by its exact display name. It reports false
// when nothing matched.
func (t *Tracker) StopTracking(category catalog.Category, exactName string) (bool, error) {
	spec, ok := catalog.Lookup(category)
	if !ok {
		return false, fmt.Errorf("unknown category %q, valid choices are %s", category, catalog.ValidChoices())
	}
	var (
		removed bool
		err     error
	)
	if spec.Ledger == catalog.LedgerPrice {
		removed, err = t.prices.Delete(category, exactName)
	} else {
		removed, err = t.statuses.Delete(category, exactName)
	}
	if err != nil {
		return false, fmt.Errorf("stop tracking %q: %w", exactName, err)
	}
	if removed {
		t.logger.Info("stopped tracking",
			logging.Args(
				logging.String(logging.FieldCategory, string(category)),
				logging.String(logging.FieldItem, exactName),
			)...)
	}
	return removed, nil
}

// ListTracked returns the category's ledger rows flattened for display, in
// file order.
func (t *Tracker) ListTracked(category catalog.Category) ([]TrackedItem, error) {
	spec, ok := catalog.Lookup(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q, valid choices are %s", category, catalog.ValidChoices())
	}

	var items []TrackedItem
	if spec.Ledger == catalog.LedgerPrice {
		rows, err := t.prices.All(category)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			items = append(items, TrackedItem{
				Name:      row.Name,
				Category:  row.Category,
				Value:     normalize.FormatAmount(row.LowestPrice) + "€",
				Expansion: row.Expansion,
				URL:       row.URL,
				CheckedAt: row.DateChecked,
			})
		}
		return items, nil
	}

	rows, err := t.statuses.All(category)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		items = append(items, TrackedItem{
			Name:      row.Name,
			Category:  row.Category,
			Value:     row.Status,
			CheckedAt: row.DateChecked,
		})
	}
	return items, nil
}

// Search runs the category's provider search and returns the raw results.
func (t *Tracker) Search(ctx context.Context, category catalog.Category, term string) ([]provider.Observation, error) {
	p, err := t.registry.ForCategory(category)
	if err != nil {
		return nil, err
	}
	results, err := p.Search(ctx, category, term)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return results, nil
}
