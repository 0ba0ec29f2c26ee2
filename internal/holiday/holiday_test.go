package holiday

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	assert.Equal(t, 5, len(tbl.Fixed))
	assert.Equal(t, 22, len(tbl.Movable))

	name, ok := tbl.Lookup(2025, time.August, 17)
	require.True(t, ok)
	assert.Equal(t, "Hari Kemerdekaan RI", name)

	name, ok = tbl.Lookup(2025, time.March, 31)
	require.True(t, ok)
	assert.Equal(t, "Idul Fitri 1446H", name)
}

func TestFixedRecursEveryYear(t *testing.T) {
	tbl := Default()
	for _, y := range []int{1999, 2025, 2031} {
		name, ok := tbl.Lookup(y, time.December, 25)
		require.True(t, ok)
		assert.Equal(t, "Hari Raya Natal", name)
	}
}

func TestMovableOnlyForListedYear(t *testing.T) {
	tbl := Default()
	_, ok := tbl.Lookup(2025, time.January, 29)
	assert.True(t, ok)
	_, ok = tbl.Lookup(2027, time.January, 29)
	assert.False(t, ok)
}

func TestFixedShadowsMovable(t *testing.T) {
	tbl, err := Load(strings.NewReader(`
fixed:
  "05-01": Fixed Labour Day
movable:
  "2025-05-01": Movable Labour Day
  "2025-05-02": Only Movable
`))
	require.NoError(t, err)

	name, ok := tbl.Lookup(2025, time.May, 1)
	require.True(t, ok)
	assert.Equal(t, "Fixed Labour Day", name)

	name, _ = tbl.Lookup(2025, time.May, 2)
	assert.Equal(t, "Only Movable", name)

	// The bundled table has the same overlap on 2025-05-01.
	name, _ = Default().Lookup(2025, time.May, 1)
	assert.Equal(t, "Hari Buruh Internasional", name)
}

func TestNoHoliday(t *testing.T) {
	_, ok := Default().Lookup(2025, time.July, 8)
	assert.False(t, ok)
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	_, ok := tbl.Lookup(2025, time.January, 1)
	assert.False(t, ok)
	assert.Zero(t, tbl.Len())
}

func TestLoadRejectsBadKeys(t *testing.T) {
	for _, doc := range []string{
		"fixed:\n  \"13-01\": x\n",
		"fixed:\n  \"1-1\": x\n",
		"fixed:\n  \"2025-01-01\": x\n",
		"movable:\n  \"2025-02-30\": x\n",
		"movable:\n  \"01-01\": x\n",
	} {
		_, err := Load(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrInvalidKey, "doc=%q", doc)
	}
}

func TestLoadAcceptsLeapDay(t *testing.T) {
	tbl, err := Load(strings.NewReader("fixed:\n  \"02-29\": Leap\n"))
	require.NoError(t, err)
	_, ok := tbl.Lookup(2024, time.February, 29)
	assert.True(t, ok)
	assert.NotNil(t, tbl.Movable)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(strings.NewReader("fixed: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("movable:\n  \"2027-02-06\": Tahun Baru Imlek 2578\n"), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	extra := &Table{
		Fixed:   map[string]string{"08-17": "Custom"},
		Movable: map[string]string{"2027-02-06": "Tahun Baru Imlek 2578"},
	}
	merged := Default().Merge(extra)

	name, _ := merged.Lookup(2025, time.August, 17)
	assert.Equal(t, "Custom", name)
	_, ok := merged.Lookup(2027, time.February, 6)
	assert.True(t, ok)
	_, ok = merged.Lookup(2025, time.June, 1)
	assert.True(t, ok, "default entries survive the merge")

	// Inputs are untouched.
	name, _ = Default().Lookup(2025, time.August, 17)
	assert.Equal(t, "Hari Kemerdekaan RI", name)
	assert.Equal(t, Default().Len(), Default().Merge(nil).Len())
}
