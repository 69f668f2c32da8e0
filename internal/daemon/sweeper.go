package daemon

import (
	"context"
	"log/slog"

	"pheme/internal/catalog"
	"pheme/internal/journal"
	"pheme/internal/logging"
	"pheme/internal/notifications"
	"pheme/internal/tracker"
)

// Sweeper walks one ledger's categories sequentially, journals each run, and
// hands change events to the notifier. The daemon and the sweep command share
// it so on-demand and scheduled sweeps behave identically.
type Sweeper struct {
	tracker  *tracker.Tracker
	journal  *journal.Store
	notifier notifications.Service
	logger   *slog.Logger
}

// NewSweeper builds a sweeper. The journal may be nil when runs should not
// be recorded.
func NewSweeper(tr *tracker.Tracker, jr *journal.Store, notifier notifications.Service, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		tracker:  tr,
		journal:  jr,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "sweeper"),
	}
}

// RunLedger sweeps every category persisted in the given ledger. A failing
// category is logged and the remaining categories still run; the first error
// is returned at the end.
func (s *Sweeper) RunLedger(ctx context.Context, kind catalog.LedgerKind) error {
	var firstErr error
	for _, category := range catalog.ByLedger(kind) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runCategory(ctx, category); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Error("category sweep failed",
				logging.Args(
					logging.String(logging.FieldCategory, string(category)),
					logging.Error(err),
				)...)
		}
	}
	return firstErr
}

// RunCategory sweeps a single category, journals the run, and notifies.
func (s *Sweeper) RunCategory(ctx context.Context, category catalog.Category) error {
	return s.runCategory(ctx, category)
}

func (s *Sweeper) runCategory(ctx context.Context, category catalog.Category) error {
	report, err := s.tracker.Sweep(ctx, category)
	if err != nil {
		return err
	}

	if s.journal != nil {
		runID, err := s.journal.Record(ctx, report)
		if err != nil {
			// The sweep itself succeeded; a journal failure must not block
			// notifications.
			s.logger.Warn("journal write failed",
				logging.Args(
					logging.String(logging.FieldCategory, string(category)),
					logging.Error(err),
				)...)
		} else {
			s.logger.Debug("sweep journaled",
				logging.Args(
					logging.String(logging.FieldRunID, runID),
					logging.String(logging.FieldCategory, string(category)),
				)...)
		}
	}

	if len(report.Events) == 0 {
		return nil
	}
	spec, ok := catalog.Lookup(category)
	if !ok {
		return nil
	}
	return s.notifier.NotifyChanges(ctx, spec.Family, report.Events)
}
