package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"pheme/internal/birthday"
	"pheme/internal/catalog"
	"pheme/internal/config"
	"pheme/internal/logging"
	"pheme/internal/notifications"
)

// Daemon coordinates the sweep loops and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	sweeper  *Sweeper
	notifier notifications.Service
	logger   *slog.Logger

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, sweeper *Sweeper, notifier notifications.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || sweeper == nil || notifier == nil {
		return nil, errors.New("daemon requires config, sweeper, and notifier")
	}
	lockPath := cfg.DaemonLockPath()
	return &Daemon{
		cfg:      cfg,
		sweeper:  sweeper,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// LockPath returns the single-instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Start acquires the instance lock and launches the sweep loops. Each ledger
// sweeps once at startup, then on its own interval.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pheme daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	var keep *keepalive
	if d.cfg.Sweep.KeepaliveBind != "" {
		keep = newKeepalive(d.cfg.Sweep.KeepaliveBind, d.logger)
		keep.start()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sweepLoop(runCtx, catalog.LedgerPrice, time.Duration(d.cfg.Sweep.PriceIntervalHours)*time.Hour)
	}()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sweepLoop(runCtx, catalog.LedgerStatus, time.Duration(d.cfg.Sweep.StatusIntervalHours)*time.Hour)
	}()
	if d.cfg.Birthdays.Enabled {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.birthdayLoop(runCtx)
		}()
	}
	if keep != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			<-runCtx.Done()
			keep.stop()
		}()
	}

	d.logger.Info("daemon started",
		logging.Args(
			logging.String("lock", d.lockPath),
			logging.Int("price_interval_hours", d.cfg.Sweep.PriceIntervalHours),
			logging.Int("status_interval_hours", d.cfg.Sweep.StatusIntervalHours),
		)...)
	return nil
}

// Stop cancels the loops, waits for them to drain, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Args(logging.Error(err))...)
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Running reports whether the daemon loops are active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

func (d *Daemon) sweepLoop(ctx context.Context, kind catalog.LedgerKind, interval time.Duration) {
	if err := d.sweeper.RunLedger(ctx, kind); err != nil && !errors.Is(err, context.Canceled) {
		d.logger.Error("initial sweep failed", logging.Args(logging.Error(err))...)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.sweeper.RunLedger(ctx, kind); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("sweep failed", logging.Args(logging.Error(err))...)
			}
		}
	}
}

func (d *Daemon) birthdayLoop(ctx context.Context) {
	for {
		wait := time.Until(nextBirthdayRun(time.Now(), d.cfg.Birthdays.Hour))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		greetings, err := birthday.Greetings(d.cfg.Birthdays.File, time.Now())
		if err != nil {
			d.logger.Error("birthday pass failed", logging.Args(logging.Error(err))...)
			continue
		}
		if len(greetings) == 0 {
			continue
		}
		if err := d.notifier.NotifyBirthdays(ctx, greetings); err != nil {
			d.logger.Error("birthday notification failed", logging.Args(logging.Error(err))...)
		}
	}
}

// nextBirthdayRun returns the next occurrence of the configured local hour,
// strictly after now.
func nextBirthdayRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
