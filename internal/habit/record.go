package habit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is an opaque binary-as-text blob, normally a data URL. The empty
// payload means "absent" and is persisted as JSON null.
type Payload string

func (p Payload) IsZero() bool { return p == "" }

func (p Payload) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	*p = Payload(s)
	return nil
}

// Record is the per-day habit data.
type Record struct {
	Completed bool    `json:"completed"`
	Note      string  `json:"note"`
	Photo     Payload `json:"photo"`
	Audio     Payload `json:"audio"`
}

// IsEmpty reports whether r carries no data at all. Empty records are never stored.
func (r Record) IsEmpty() bool {
	return !r.Completed && r.Note == "" && r.Photo.IsZero() && r.Audio.IsZero()
}

const dateKeyLayout = "2006-01-02"

// DateKey formats a civil date as YYYY-MM-DD.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// KeyFor returns the date key of t in its own location.
func KeyFor(t time.Time) string {
	return DateKey(t.Year(), t.Month(), t.Day())
}

// ParseDateKey parses a YYYY-MM-DD key. Out-of-range dates such as
// 2023-02-29 are rejected.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(dateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}
