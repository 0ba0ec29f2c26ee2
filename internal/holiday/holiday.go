// Package holiday resolves public holiday names for calendar days.
//
// A Table holds two lookups: fixed holidays recurring on the same month and
// day every year, and movable holidays that are only valid for the exact
// date listed. When both match a day the fixed name wins.
package holiday

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed id.yaml
var defaultAsset []byte

var ErrInvalidKey = errors.New("invalid holiday key")

// Table is read-only once built.
type Table struct {
	Fixed   map[string]string `yaml:"fixed"`   // "MM-DD" -> name
	Movable map[string]string `yaml:"movable"` // "YYYY-MM-DD" -> name
}

// Default returns the bundled Indonesian table.
func Default() *Table {
	t, err := parse(defaultAsset)
	if err != nil {
		panic(fmt.Sprintf("holiday: bundled table: %v", err))
	}
	return t
}

// Load reads a YAML table from r.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read holiday table: %w", err)
	}
	return parse(data)
}

// LoadFile reads a YAML table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday table: %w", err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode holiday table: %w", err)
	}
	for k := range t.Fixed {
		// 2000 is a leap year so 02-29 is accepted.
		if _, err := time.Parse("2006-01-02", "2000-"+k); err != nil || len(k) != 5 {
			return nil, fmt.Errorf("fixed %q: %w", k, ErrInvalidKey)
		}
	}
	for k := range t.Movable {
		if _, err := time.Parse("2006-01-02", k); err != nil {
			return nil, fmt.Errorf("movable %q: %w", k, ErrInvalidKey)
		}
	}
	if t.Fixed == nil {
		t.Fixed = map[string]string{}
	}
	if t.Movable == nil {
		t.Movable = map[string]string{}
	}
	return &t, nil
}

// Lookup returns the holiday name for a civil date. A nil table has no holidays.
func (t *Table) Lookup(year int, month time.Month, day int) (string, bool) {
	if t == nil {
		return "", false
	}
	if name, ok := t.Fixed[fmt.Sprintf("%02d-%02d", int(month), day)]; ok {
		return name, true
	}
	if name, ok := t.Movable[fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)]; ok {
		return name, true
	}
	return "", false
}

// Merge returns a new table with other's entries laid over t's.
func (t *Table) Merge(other *Table) *Table {
	out := &Table{Fixed: map[string]string{}, Movable: map[string]string{}}
	for _, src := range []*Table{t, other} {
		if src == nil {
			continue
		}
		maps.Copy(out.Fixed, src.Fixed)
		maps.Copy(out.Movable, src.Movable)
	}
	return out
}

// Len is the number of entries across both lookups.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Fixed) + len(t.Movable)
}
