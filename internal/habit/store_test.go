package habit

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sadopc/habitcal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSlots(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.NewMemory(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// failingSlots wraps real slots and rejects writes while fail is set.
type failingSlots struct {
	Slots
	fail error
}

func (f *failingSlots) SetSlot(key, value string) error {
	if f.fail != nil {
		return f.fail
	}
	return f.Slots.SetSlot(key, value)
}

func persisted(t *testing.T, s Slots) map[string]json.RawMessage {
	t.Helper()
	raw, ok, err := s.GetSlot(store.SlotHabitData)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

// ============================================================
// Load
// ============================================================

func TestLoadAbsentIsEmpty(t *testing.T) {
	rs := Open(newTestSlots(t), zap.NewNop())
	assert.Equal(t, 0, rs.Len())
}

func TestLoadMalformedIsEmpty(t *testing.T) {
	for _, raw := range []string{"{not json", `["a"]`, `{"2025-01-01": 5}`, "null"} {
		s := newTestSlots(t)
		require.NoError(t, s.SetSlot(store.SlotHabitData, raw))

		rs := Open(s, nil)
		assert.Equal(t, 0, rs.Len(), "raw=%q", raw)
		assert.NotNil(t, rs.Load())
	}
}

func TestLoadExistingData(t *testing.T) {
	s := newTestSlots(t)
	raw := `{"2025-08-17":{"completed":true,"note":"merdeka","photo":null,"audio":"data:audio/webm;base64,AAA="}}`
	require.NoError(t, s.SetSlot(store.SlotHabitData, raw))

	rs := Open(s, zap.NewNop())
	got, ok := rs.Get("2025-08-17")
	require.True(t, ok)
	want := Record{Completed: true, Note: "merdeka", Audio: "data:audio/webm;base64,AAA="}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDropsEmptyRecords(t *testing.T) {
	s := newTestSlots(t)
	raw := `{"2025-01-02":{"completed":false,"note":"","photo":null,"audio":null}}`
	require.NoError(t, s.SetSlot(store.SlotHabitData, raw))

	rs := Open(s, zap.NewNop())
	_, ok := rs.Get("2025-01-02")
	assert.False(t, ok)
	assert.Empty(t, persisted(t, s), "pruned days are dropped from storage as well")
}

func TestLoadPruneKeepsRealRecords(t *testing.T) {
	s := newTestSlots(t)
	raw := `{"2025-01-02":{"completed":false,"note":"","photo":null,"audio":null},` +
		`"2025-01-03":{"completed":true,"note":"","photo":null,"audio":null}}`
	require.NoError(t, s.SetSlot(store.SlotHabitData, raw))

	rs := Open(s, zap.NewNop())
	assert.Equal(t, 1, rs.Len())
	got := persisted(t, s)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "2025-01-03")
}

func TestLoadPruneWriteFailureKeepsMemory(t *testing.T) {
	fs := &failingSlots{Slots: newTestSlots(t)}
	raw := `{"2025-01-02":{"completed":false,"note":"","photo":null,"audio":null}}`
	require.NoError(t, fs.SetSlot(store.SlotHabitData, raw))

	fs.fail = store.ErrQuotaExceeded
	rs := Open(fs, zap.NewNop())
	assert.Equal(t, 0, rs.Len())
}

// ============================================================
// Upsert / Get
// ============================================================

func TestUpsertEmptyRemovesKey(t *testing.T) {
	s := newTestSlots(t)
	rs := Open(s, zap.NewNop())

	require.NoError(t, rs.Upsert("2025-03-01", Record{Note: "x"}))
	require.NoError(t, rs.Upsert("2025-03-01", Record{}))

	_, ok := rs.Get("2025-03-01")
	assert.False(t, ok)
	assert.NotContains(t, persisted(t, s), "2025-03-01")
}

func TestUpsertEmptyOnFreshKey(t *testing.T) {
	s := newTestSlots(t)
	rs := Open(s, zap.NewNop())

	require.NoError(t, rs.Upsert("2025-03-02", Record{}))
	_, ok := rs.Get("2025-03-02")
	assert.False(t, ok)
	assert.Empty(t, persisted(t, s))
}

func TestUpsertRoundTrip(t *testing.T) {
	tests := []Record{
		{Completed: true},
		{Note: "ran 5k"},
		{Photo: "data:image/png;base64,iVBORw0KGgo="},
		{Audio: "data:audio/webm;base64,GkXfo59ChoEBQveBAULygQRC84EIQoKEd2VibUKHgQRChYECGFOAZwH"},
		{Completed: true, Note: "all", Photo: "data:image/jpeg;base64,/9j/", Audio: "data:audio/ogg;base64,T2dn"},
	}
	for i, want := range tests {
		s := newTestSlots(t)
		rs := Open(s, zap.NewNop())
		key := DateKey(2025, time.June, i+1)
		require.NoError(t, rs.Upsert(key, want))

		got, ok := rs.Get(key)
		require.True(t, ok)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("in-memory mismatch (-want +got):\n%s", diff)
		}

		// A fresh store reading the same slots sees the same record.
		got, ok = Open(s, zap.NewNop()).Get(key)
		require.True(t, ok)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("reloaded mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestPersistedFormat(t *testing.T) {
	s := newTestSlots(t)
	rs := Open(s, zap.NewNop())
	require.NoError(t, rs.Upsert("2025-08-17", Record{Completed: true}))

	raw, _, _ := s.GetSlot(store.SlotHabitData)
	assert.JSONEq(t, `{"2025-08-17":{"completed":true,"note":"","photo":null,"audio":null}}`, raw)
}

func TestUpsertInvalidKey(t *testing.T) {
	rs := Open(newTestSlots(t), zap.NewNop())
	for _, key := range []string{"", "2025-13-01", "2023-02-29", "17/08/2025", "2025-8-17"} {
		err := rs.Upsert(key, Record{Completed: true})
		assert.ErrorIs(t, err, ErrInvalidDateKey, "key=%q", key)
	}
	assert.Equal(t, 0, rs.Len())
}

func TestRemove(t *testing.T) {
	s := newTestSlots(t)
	rs := Open(s, zap.NewNop())
	require.NoError(t, rs.Upsert("2025-04-01", Record{Completed: true}))
	require.NoError(t, rs.Remove("2025-04-01"))

	_, ok := rs.Get("2025-04-01")
	assert.False(t, ok)
	assert.Empty(t, persisted(t, s))

	require.NoError(t, rs.Remove("2025-04-02"), "removing an absent key is fine")
}

func TestRemoveInvalidKey(t *testing.T) {
	fs := &failingSlots{Slots: newTestSlots(t)}
	rs := Open(fs, zap.NewNop())
	require.NoError(t, rs.Upsert("2025-04-01", Record{Completed: true}))

	// Any write would fail, so a nil or quota error means the key slipped through.
	fs.fail = errors.New("unexpected write")
	for _, key := range []string{"", "2025-13-01", "2023-02-29", "17/08/2025"} {
		err := rs.Remove(key)
		assert.ErrorIs(t, err, ErrInvalidDateKey, "key=%q", key)
	}
	assert.Equal(t, 1, rs.Len())
}

func TestSnapshotIsCopy(t *testing.T) {
	rs := Open(newTestSlots(t), zap.NewNop())
	require.NoError(t, rs.Upsert("2025-05-05", Record{Note: "a"}))

	snap := rs.Snapshot()
	snap["2025-05-06"] = Record{Note: "b"}
	_, ok := rs.Get("2025-05-06")
	assert.False(t, ok)
}

func TestKeysSorted(t *testing.T) {
	rs := Open(newTestSlots(t), zap.NewNop())
	for _, k := range []string{"2025-05-09", "2024-12-31", "2025-01-01"} {
		require.NoError(t, rs.Upsert(k, Record{Completed: true}))
	}
	assert.Equal(t, []string{"2024-12-31", "2025-01-01", "2025-05-09"}, rs.Keys())
}

// ============================================================
// Failure and rollback
// ============================================================

func TestUpsertQuotaExceededRollsBack(t *testing.T) {
	s := newTestSlots(t, store.WithQuota(300))
	rs := Open(s, zap.NewNop())
	before := Record{Completed: true, Note: "small"}
	require.NoError(t, rs.Upsert("2025-07-01", before))

	big := Record{Completed: true, Photo: Payload("data:image/png;base64," + strings.Repeat("A", 400))}
	err := rs.Upsert("2025-07-01", big)
	require.ErrorIs(t, err, ErrStorageQuotaExceeded)

	got, ok := rs.Get("2025-07-01")
	require.True(t, ok)
	if diff := cmp.Diff(before, got); diff != "" {
		t.Fatalf("rollback mismatch (-want +got):\n%s", diff)
	}

	// Memory and storage agree after the failure.
	reloaded, _ := Open(s, zap.NewNop()).Get("2025-07-01")
	assert.Equal(t, before, reloaded)

	// The store stays usable.
	require.NoError(t, rs.Upsert("2025-07-02", Record{Note: "ok"}))
}

func TestUpsertNewKeyFailureRollsBack(t *testing.T) {
	fs := &failingSlots{Slots: newTestSlots(t)}
	rs := Open(fs, zap.NewNop())

	fs.fail = store.ErrQuotaExceeded
	err := rs.Upsert("2025-08-17", Record{Completed: true})
	require.ErrorIs(t, err, ErrStorageQuotaExceeded)

	_, ok := rs.Get("2025-08-17")
	assert.False(t, ok)
}

func TestRemoveFailureRollsBack(t *testing.T) {
	fs := &failingSlots{Slots: newTestSlots(t)}
	rs := Open(fs, zap.NewNop())
	require.NoError(t, rs.Upsert("2025-09-01", Record{Note: "keep"}))

	fs.fail = store.ErrQuotaExceeded
	require.ErrorIs(t, rs.Remove("2025-09-01"), ErrStorageQuotaExceeded)

	got, ok := rs.Get("2025-09-01")
	require.True(t, ok)
	assert.Equal(t, "keep", got.Note)
}

func TestEmptyUpsertFailureRestoresRecord(t *testing.T) {
	fs := &failingSlots{Slots: newTestSlots(t)}
	rs := Open(fs, zap.NewNop())
	require.NoError(t, rs.Upsert("2025-09-02", Record{Completed: true}))

	fs.fail = store.ErrQuotaExceeded
	require.Error(t, rs.Upsert("2025-09-02", Record{}))
	_, ok := rs.Get("2025-09-02")
	assert.True(t, ok)
}

func TestOtherWriteErrorsAreNotQuota(t *testing.T) {
	fs := &failingSlots{Slots: newTestSlots(t)}
	rs := Open(fs, zap.NewNop())

	disk := errors.New("disk on fire")
	fs.fail = disk
	err := rs.Upsert("2025-10-10", Record{Completed: true})
	require.ErrorIs(t, err, disk)
	assert.NotErrorIs(t, err, ErrStorageQuotaExceeded)
	assert.Equal(t, 0, rs.Len())
}

// ============================================================
// Date keys
// ============================================================

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2025-08-17", DateKey(2025, time.August, 17))
	assert.Equal(t, "0999-01-02", DateKey(999, time.January, 2))
	assert.Equal(t, "2024-02-29", KeyFor(time.Date(2024, 2, 29, 23, 59, 0, 0, time.Local)))
}

func TestParseDateKey(t *testing.T) {
	d, err := ParseDateKey("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseDateKey("2023-02-29")
	assert.ErrorIs(t, err, ErrInvalidDateKey)
}

func TestPayloadJSON(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"completed":false,"note":"n","photo":null,"audio":"x"}`), &r))
	assert.True(t, r.Photo.IsZero())
	assert.Equal(t, Payload("x"), r.Audio)

	assert.Error(t, json.Unmarshal([]byte(`{"photo":12}`), &r))
}
