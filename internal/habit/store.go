package habit

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/sadopc/habitcal/internal/store"
	"go.uber.org/zap"
)

var (
	// ErrStorageQuotaExceeded means the persistent store refused the write
	// for lack of space. The in-memory records are left as they were.
	ErrStorageQuotaExceeded = errors.New("storage quota exceeded")

	// ErrMalformedPersistedData marks unreadable habitData. Load recovers
	// from it with an empty mapping; it is only ever logged.
	ErrMalformedPersistedData = errors.New("malformed persisted habit data")

	ErrInvalidDateKey = errors.New("invalid date key")
)

// Slots is the key-value persistence the RecordStore writes through.
// *store.Store satisfies it.
type Slots interface {
	GetSlot(key string) (string, bool, error)
	SetSlot(key, value string) error
}

// RecordStore owns the date key -> Record mapping and keeps it in sync
// with the habitData slot. It is not safe for concurrent use; callers
// drive it from a single event loop.
type RecordStore struct {
	slots   Slots
	logger  *zap.Logger
	records map[string]Record
}

// Open builds a RecordStore and loads whatever is persisted.
func Open(slots Slots, logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &RecordStore{slots: slots, logger: logger}
	rs.records = rs.Load()
	return rs
}

// Load reads the persisted mapping. Absent or unreadable data yields an
// empty mapping; it never fails. Empty days are dropped and the cleaned
// mapping is written back.
func (rs *RecordStore) Load() map[string]Record {
	raw, ok, err := rs.slots.GetSlot(store.SlotHabitData)
	if err != nil {
		rs.logger.Warn("read habit data, starting empty", zap.Error(err))
		return map[string]Record{}
	}
	if !ok || raw == "" {
		return map[string]Record{}
	}

	records := map[string]Record{}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		rs.logger.Warn("discarding habit data",
			zap.Error(fmt.Errorf("%w: %v", ErrMalformedPersistedData, err)),
			zap.Int("bytes", len(raw)),
		)
		return map[string]Record{}
	}
	if records == nil {
		// "null" decodes to a nil map.
		records = map[string]Record{}
	}
	pruned := 0
	for k, r := range records {
		if r.IsEmpty() {
			delete(records, k)
			pruned++
		}
	}
	if pruned > 0 {
		// Keep the persisted mapping free of empty days too.
		if err := rs.write(records); err != nil {
			rs.logger.Warn("rewrite habit data", zap.Int("pruned", pruned), zap.Error(err))
		} else {
			rs.logger.Debug("dropped empty records", zap.Int("pruned", pruned))
		}
	}
	return records
}

func (rs *RecordStore) Get(key string) (Record, bool) {
	r, ok := rs.records[key]
	return r, ok
}

// Len returns the number of stored days.
func (rs *RecordStore) Len() int {
	return len(rs.records)
}

// Upsert stores r under key, or removes key when r is empty, then persists
// the whole mapping. On failure the mapping is restored.
func (rs *RecordStore) Upsert(key string, r Record) error {
	if _, err := ParseDateKey(key); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	if r.IsEmpty() {
		return rs.Remove(key)
	}

	prev, existed := rs.records[key]
	rs.records[key] = r
	if err := rs.persist(); err != nil {
		if existed {
			rs.records[key] = prev
		} else {
			delete(rs.records, key)
		}
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	rs.logger.Debug("habit saved", zap.String("date", key), zap.Bool("completed", r.Completed))
	return nil
}

// Remove deletes key and persists. Removing an absent key still persists.
func (rs *RecordStore) Remove(key string) error {
	if _, err := ParseDateKey(key); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	prev, existed := rs.records[key]
	delete(rs.records, key)
	if err := rs.persist(); err != nil {
		if existed {
			rs.records[key] = prev
		}
		return fmt.Errorf("remove %s: %w", key, err)
	}
	if existed {
		rs.logger.Debug("habit removed", zap.String("date", key))
	}
	return nil
}

// Snapshot returns a copy of the mapping.
func (rs *RecordStore) Snapshot() map[string]Record {
	return maps.Clone(rs.records)
}

// Keys returns the stored date keys in ascending order.
func (rs *RecordStore) Keys() []string {
	return slices.Sorted(maps.Keys(rs.records))
}

func (rs *RecordStore) persist() error {
	return rs.write(rs.records)
}

func (rs *RecordStore) write(records map[string]Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode habit data: %w", err)
	}
	if err := rs.slots.SetSlot(store.SlotHabitData, string(data)); err != nil {
		if errors.Is(err, store.ErrQuotaExceeded) {
			rs.logger.Warn("habit data rejected by storage", zap.Int("bytes", len(data)), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrStorageQuotaExceeded, err)
		}
		return fmt.Errorf("persist habit data: %w", err)
	}
	return nil
}
