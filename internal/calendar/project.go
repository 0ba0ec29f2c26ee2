package calendar

import (
	"time"

	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/holiday"
)

// GridCells is the fixed 6x7 layout every month is rendered into.
const GridCells = 42

// RecordSource is the read side of the habit store.
type RecordSource interface {
	Get(key string) (habit.Record, bool)
}

// Style is the visual treatment a cell resolves to.
type Style int

const (
	StyleNormal Style = iota
	StyleHoliday
	StyleCompleted
)

// Cell is one slot of the grid. Padding cells carry only Padding=true.
type Cell struct {
	Padding bool

	Key     string
	Day     int
	Weekday time.Weekday
	Holiday string

	IsHoliday  bool
	IsSunday   bool
	IsToday    bool
	IsSelected bool

	Completed bool
	HasNote   bool
	HasPhoto  bool
	HasAudio  bool
}

// Style resolves completion over holiday/Sunday over normal.
func (c Cell) Style() Style {
	switch {
	case c.Completed:
		return StyleCompleted
	case c.IsHoliday || c.IsSunday:
		return StyleHoliday
	default:
		return StyleNormal
	}
}

// HasMedia reports whether a photo or audio clip is attached.
func (c Cell) HasMedia() bool {
	return c.HasPhoto || c.HasAudio
}

// Grid is a projected month.
type Grid struct {
	YearMonth
	Leading  int
	Trailing int
	Cells    [GridCells]Cell
}

// Project lays out ym for rendering. today is supplied by the caller so
// highlighting follows whatever clock the caller renders with.
func Project(ym YearMonth, records RecordSource, holidays *holiday.Table, selectedKey string, today time.Time) Grid {
	g := Grid{YearMonth: ym}
	first := ym.FirstWeekday()
	days := ym.DaysIn()

	g.Leading = int(first)
	g.Trailing = GridCells - g.Leading - days

	for i := 0; i < g.Leading; i++ {
		g.Cells[i] = Cell{Padding: true}
	}

	for day := 1; day <= days; day++ {
		key := habit.DateKey(ym.Year, ym.Month, day)
		wd := time.Weekday((int(first) + day - 1) % 7)
		c := Cell{
			Key:        key,
			Day:        day,
			Weekday:    wd,
			IsSunday:   wd == time.Sunday,
			IsToday:    today.Year() == ym.Year && today.Month() == ym.Month && today.Day() == day,
			IsSelected: selectedKey != "" && selectedKey == key,
		}
		if name, ok := holidays.Lookup(ym.Year, ym.Month, day); ok {
			c.IsHoliday = true
			c.Holiday = name
		}
		if records != nil {
			if r, ok := records.Get(key); ok {
				c.Completed = r.Completed
				c.HasNote = r.Note != ""
				c.HasPhoto = !r.Photo.IsZero()
				c.HasAudio = !r.Audio.IsZero()
			}
		}
		g.Cells[g.Leading+day-1] = c
	}

	for i := g.Leading + days; i < GridCells; i++ {
		g.Cells[i] = Cell{Padding: true}
	}
	return g
}

// Days returns the real day cells in order.
func (g Grid) Days() []Cell {
	return g.Cells[g.Leading : GridCells-g.Trailing]
}

// Cell returns the cell for day, or false if day is outside the month.
func (g Grid) Cell(day int) (Cell, bool) {
	if day < 1 || day > GridCells-g.Leading-g.Trailing {
		return Cell{}, false
	}
	return g.Cells[g.Leading+day-1], true
}

// Weeks splits the grid into six rows of seven, Sunday first.
func (g Grid) Weeks() [][]Cell {
	rows := make([][]Cell, 0, GridCells/7)
	for i := 0; i < GridCells; i += 7 {
		rows = append(rows, g.Cells[i:i+7])
	}
	return rows
}
