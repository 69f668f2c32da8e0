package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"pheme/internal/catalog"
)

// ErrPersistence marks ledger read/write failures. Operations carrying it
// abort without leaving a partially written table behind.
var ErrPersistence = errors.New("ledger persistence error")

// Previous reports the value a row held before an upsert. Found is false
// when the item was not tracked yet, which is distinct from a tracked item
// whose value is zero.
type Previous[T Record] struct {
	Record T
	Found  bool
}

// Store persists one ledger table as a pipe-delimited flat file.
//
// Every mutation rewrites the whole table through a temp file and rename, so
// readers always observe a complete snapshot. An in-process RW mutex orders
// callers within the process; a flock sidecar lock orders the daemon against
// concurrent CLI invocations.
type Store[T Record] struct {
	path   string
	schema Schema[T]

	mu   sync.RWMutex
	lock *flock.Flock
}

// Open prepares a store for the table at path. A missing file is created
// with a header-only row before first use.
func Open[T Record](path string, schema Schema[T]) (*Store[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create ledger directory: %w", ErrPersistence, err)
	}
	s := &Store[T]{
		path:   path,
		schema: schema,
		lock:   flock.New(path + ".lock"),
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.save(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: stat ledger: %w", ErrPersistence, err)
	}
	return s, nil
}

// OpenPrice opens the price ledger table.
func OpenPrice(path string) (*Store[PriceRecord], error) {
	return Open(path, PriceSchema())
}

// OpenStatus opens the status ledger table.
func OpenStatus(path string) (*Store[StatusRecord], error) {
	return Open(path, StatusSchema())
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Upsert replaces or appends the row keyed by (identity, category) and
// returns the row's prior state. DateChecked never moves backward: when the
// incoming timestamp does not advance past the stored one, the stored
// timestamp is kept.
func (s *Store[T]) Upsert(record T) (Previous[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return Previous[T]{}, fmt.Errorf("%w: acquire ledger lock: %w", ErrPersistence, err)
	}
	defer s.lock.Unlock()

	rows, err := s.load()
	if err != nil {
		return Previous[T]{}, err
	}

	var prev Previous[T]
	replaced := false
	for i, row := range rows {
		if sameKey(row, record) {
			prev = Previous[T]{Record: row, Found: true}
			if !record.CheckedAt().After(row.CheckedAt()) {
				record = withCheckedAt(record, row.CheckedAt())
			}
			rows[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, record)
	}

	if err := s.save(rows); err != nil {
		return Previous[T]{}, err
	}
	return prev, nil
}

// All returns a snapshot of the rows in one category, in file order.
func (s *Store[T]) All(category catalog.Category) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("%w: acquire ledger lock: %w", ErrPersistence, err)
	}
	defer s.lock.Unlock()

	rows, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if row.RecordCategory() == category {
			out = append(out, row)
		}
	}
	return out, nil
}

// Delete removes the row matching an exact display name within a category.
// It reports false, without touching the file, when no row matches.
func (s *Store[T]) Delete(category catalog.Category, exactName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.lock.Lock(); err != nil {
		return false, fmt.Errorf("%w: acquire ledger lock: %w", ErrPersistence, err)
	}
	defer s.lock.Unlock()

	rows, err := s.load()
	if err != nil {
		return false, err
	}

	kept := rows[:0]
	removed := false
	for _, row := range rows {
		if !removed && row.RecordCategory() == category && row.DisplayName() == exactName {
			removed = true
			continue
		}
		kept = append(kept, row)
	}
	if !removed {
		return false, nil
	}
	if err := s.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store[T]) load() ([]T, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open ledger: %w", ErrPersistence, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read ledger: %w", ErrPersistence, err)
	}
	if len(lines) <= 1 {
		return nil, nil
	}

	rows := make([]T, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row, err := s.schema.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPersistence, s.path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store[T]) save(rows []T) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp table: %w", ErrPersistence, err)
	}
	tmpPath := tmp.Name()

	writer := csv.NewWriter(tmp)
	writer.Comma = '|'

	writeErr := writer.Write(s.schema.Header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = writer.Write(s.schema.Encode(row))
	}
	if writeErr == nil {
		writer.Flush()
		writeErr = writer.Error()
	}
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write table: %w", ErrPersistence, writeErr)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace table: %w", ErrPersistence, err)
	}
	return nil
}

func sameKey[T Record](a, b T) bool {
	return a.RecordCategory() == b.RecordCategory() && a.Identity() == b.Identity()
}

func withCheckedAt[T Record](record T, at time.Time) T {
	switch r := any(record).(type) {
	case PriceRecord:
		r.DateChecked = at
		return any(r).(T)
	case StatusRecord:
		r.DateChecked = at
		return any(r).(T)
	default:
		return record
	}
}
