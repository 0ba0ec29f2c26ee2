package store

import "time"

// Slot names shared with the presentation layer.
const (
	SlotHabitData = "habitData"
	SlotTheme     = "habitTheme"
	SlotUsername  = "habitUsername"
)

// Themes accepted by SetTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Size is the number of bytes the slot counts against the quota.
func (s Slot) Size() int64 {
	return int64(len(s.Key) + len(s.Value))
}
