package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitcal/internal/calendar"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/holiday"
	"github.com/sadopc/habitcal/internal/media"
)

const (
	markNote  = "✎"
	markPhoto = "◉"
	markAudio = "♪"
)

type calendarModel struct {
	records  *habit.RecordStore
	holidays *holiday.Table
	now      func() time.Time

	width  int
	height int

	ym       calendar.YearMonth
	selected int // day of month

	entry entryModel
}

func newCalendarModel(records *habit.RecordStore, holidays *holiday.Table, now func() time.Time) calendarModel {
	today := now()
	return calendarModel{
		records:  records,
		holidays: holidays,
		now:      now,
		ym:       calendar.Of(today),
		selected: today.Day(),
		entry:    newEntryModel(records),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) selectedKey() string {
	return habit.DateKey(c.ym.Year, c.ym.Month, c.selected)
}

func (c calendarModel) grid() calendar.Grid {
	return calendar.Project(c.ym, c.records, c.holidays, c.selectedKey(), c.now())
}

// moveDay shifts the selection by delta days, crossing month boundaries.
func (c calendarModel) moveDay(delta int) calendarModel {
	d := time.Date(c.ym.Year, c.ym.Month, c.selected+delta, 12, 0, 0, 0, time.UTC)
	c.ym = calendar.Of(d)
	c.selected = d.Day()
	return c
}

func (c calendarModel) changeMonth(offset int) calendarModel {
	c.ym = calendar.ChangeMonth(c.ym, offset)
	c.selected = min(c.selected, c.ym.DaysIn())
	return c
}

func (c calendarModel) jumpToday() calendarModel {
	today := c.now()
	c.ym = calendar.Of(today)
	c.selected = today.Day()
	return c
}

// toggle flips completion for the selected day. A day left with nothing
// recorded is removed by the store.
func (c calendarModel) toggle() (calendarModel, tea.Cmd) {
	k := c.selectedKey()
	r, _ := c.records.Get(k)
	r.Completed = !r.Completed
	if err := c.records.Upsert(k, r); err != nil {
		if errors.Is(err, habit.ErrStorageQuotaExceeded) {
			return c, func() tea.Msg { return noticeMsg{text: storageFullNotice} }
		}
		return c, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	status := "Marked " + k + " done"
	if !r.Completed {
		status = "Cleared " + k
	}
	return c, func() tea.Msg { return statusMsg{text: status} }
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if _, ok := msg.(modalTickMsg); ok {
		var cmd tea.Cmd
		c.entry, cmd = c.entry.update(msg)
		return c, cmd
	}
	if c.entry.visible() {
		var cmd tea.Cmd
		c.entry, cmd = c.entry.update(msg)
		return c, cmd
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch {
	case key.Matches(km, keys.Left):
		return c.moveDay(-1), nil
	case key.Matches(km, keys.Right):
		return c.moveDay(1), nil
	case key.Matches(km, keys.Up):
		return c.moveDay(-7), nil
	case key.Matches(km, keys.Down):
		return c.moveDay(7), nil
	case key.Matches(km, keys.PrevMonth):
		return c.changeMonth(-1), nil
	case key.Matches(km, keys.NextMonth):
		return c.changeMonth(1), nil
	case key.Matches(km, keys.Today):
		return c.jumpToday(), nil
	case key.Matches(km, keys.Toggle):
		return c.toggle()
	case key.Matches(km, keys.Enter):
		cell, ok := c.grid().Cell(c.selected)
		if !ok {
			return c, nil
		}
		var cmd tea.Cmd
		c.entry, cmd = c.entry.open(cell, c.ym)
		return c, cmd
	}
	return c, nil
}

func (c calendarModel) view() string {
	w := c.width - 4
	g := c.grid()

	gridView := c.renderGrid(g)
	detail := c.renderDetail(g)

	var body string
	if w >= lipgloss.Width(gridView)+40 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, gridView, "   ", detail)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, gridView, "", detail)
	}

	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(c.ym.String()), "  ",
		mutedStyle.Render("[ prev   ] next   t today"),
	)
	out := panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))

	if c.entry.visible() {
		modal := c.entry.view(min(64, max(30, w-8)))
		return lipgloss.Place(c.width, max(c.height, lipgloss.Height(modal)),
			lipgloss.Center, lipgloss.Center, modal)
	}
	return out
}

func (c calendarModel) renderGrid(g calendar.Grid) string {
	var header []string
	for _, d := range weekdayAbbr {
		header = append(header, weekdayHeaderStyle.Render(d))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, week := range g.Weeks() {
		var cells []string
		for _, cell := range week {
			cells = append(cells, renderCell(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c calendar.Cell) string {
	if c.Padding {
		return cellStyle.Render("")
	}

	var marks strings.Builder
	if c.HasNote {
		marks.WriteString(markNote)
	}
	if c.HasPhoto {
		marks.WriteString(markPhoto)
	}
	if c.HasAudio {
		marks.WriteString(markAudio)
	}
	text := fmt.Sprintf("%2d%s", c.Day, marks.String())
	if c.IsSelected {
		text = "[" + text + "]"
	} else {
		text = " " + text
	}

	var style lipgloss.Style
	switch c.Style() {
	case calendar.StyleCompleted:
		style = cellCompletedStyle
	case calendar.StyleHoliday:
		style = cellHolidayStyle
	default:
		style = cellStyle
	}
	if c.IsToday {
		style = style.Underline(true)
	}
	return style.Render(text)
}

func (c calendarModel) renderDetail(g calendar.Grid) string {
	cell, ok := g.Cell(c.selected)
	if !ok {
		return ""
	}

	date := time.Date(c.ym.Year, c.ym.Month, cell.Day, 12, 0, 0, 0, time.UTC)
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("%s, %d %s", weekdayAbbr[date.Weekday()], cell.Day, c.ym.String())))
	if cell.IsHoliday {
		rows = append(rows, holidayStyle.Render(cell.Holiday))
	}
	if cell.IsToday {
		rows = append(rows, highlightStyle.Render("Today"))
	}
	rows = append(rows, "")

	r, ok := c.records.Get(cell.Key)
	if !ok {
		rows = append(rows, mutedStyle.Render("Nothing recorded"))
	} else {
		if r.Completed {
			rows = append(rows, successStyle.Render("✓ Done"))
		} else {
			rows = append(rows, mutedStyle.Render("○ Not done"))
		}
		if r.Note != "" {
			rows = append(rows, "", markNote+" "+truncate(r.Note, 40))
		}
		if !r.Photo.IsZero() {
			rows = append(rows, markPhoto+" photo "+humanize.IBytes(uint64(media.Size(r.Photo))))
		}
		if !r.Audio.IsZero() {
			rows = append(rows, markAudio+" audio "+humanize.IBytes(uint64(media.Size(r.Audio))))
		}
	}

	rows = append(rows, "", mutedStyle.Render("enter: edit  space: toggle done"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
