package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitcal/internal/calendar"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/store"
)

type statsModel struct {
	store   *store.Store
	records *habit.RecordStore
	now     func() time.Time
	width   int
	height  int

	ym    calendar.YearMonth
	stats habit.Stats
	usage int64

	chart barchart.Model
}

func newStatsModel(s *store.Store, records *habit.RecordStore, now func() time.Time) statsModel {
	return statsModel{
		store:   s,
		records: records,
		now:     now,
		ym:      calendar.Of(now()),
		chart:   barchart.New(60, 10),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type statsDataMsg struct {
	stats habit.Stats
	usage int64
}

// refresh computes the month counters on the event loop; only the storage
// usage query runs in the command.
func (m statsModel) refresh() tea.Cmd {
	st := m.records.MonthStats(m.ym.Year, m.ym.Month, m.now())
	s := m.store
	return func() tea.Msg {
		usage, _ := s.Usage()
		return statsDataMsg{stats: st, usage: usage}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		m.stats = msg.stats
		m.usage = msg.usage
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevMonth):
			m.ym = calendar.ChangeMonth(m.ym, -1)
			return m, m.refresh()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextMonth):
			m.ym = calendar.ChangeMonth(m.ym, 1)
			return m, m.refresh()
		case key.Matches(msg, keys.Today):
			m.ym = calendar.Of(m.now())
			return m, m.refresh()
		}
	}
	return m, nil
}

// weekCounts returns completed days per grid row of the month.
func (m statsModel) weekCounts() []int {
	g := calendar.Project(m.ym, m.records, nil, "", m.now())
	var counts []int
	for _, week := range g.Weeks() {
		n, inMonth := 0, false
		for _, c := range week {
			if c.Padding {
				continue
			}
			inMonth = true
			if c.Completed {
				n++
			}
		}
		if inMonth {
			counts = append(counts, n)
		}
	}
	return counts
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	var bars []barchart.BarData
	for i, n := range m.weekCounts() {
		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("W%d", i+1),
			Values: []barchart.BarValue{{Name: "done", Value: float64(n), Style: barStyle}},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", subtitleStyle.Render(m.ym.String()),
	)

	st := m.stats
	rate := fmt.Sprintf("%.0f%%", st.Rate()*100)
	counters := []string{
		fmt.Sprintf("  %-14s %s", "Completed", successStyle.Render(fmt.Sprintf("%d / %d days (%s)", st.Completed, st.Days, rate))),
		fmt.Sprintf("  %-14s %s", "Streak", highlightStyle.Render(fmt.Sprintf("%d days", st.Streak))),
		fmt.Sprintf("  %-14s %d", "Notes", st.Notes),
		fmt.Sprintf("  %-14s %d", "Photos", st.Photos),
		fmt.Sprintf("  %-14s %d", "Audio clips", st.Audio),
	}

	nav := mutedStyle.Render("  ←/→: change month  t: this month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			m.chart.View(), "",
			strings.Join(counters, "\n"), "",
			m.renderUsage(w), "",
			nav,
		),
	)
}

func (m statsModel) renderUsage(w int) string {
	quota := m.store.Quota()
	if quota <= 0 {
		return mutedStyle.Render(fmt.Sprintf("  Storage: %s used", humanize.IBytes(uint64(m.usage))))
	}

	barWidth := min(40, max(10, w-40))
	filled := int(float64(barWidth) * float64(m.usage) / float64(quota))
	filled = min(max(filled, 0), barWidth)

	style := successStyle
	switch ratio := float64(m.usage) / float64(quota); {
	case ratio >= 0.9:
		style = errorStyle
	case ratio >= 0.7:
		style = warningStyle
	}
	bar := style.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("  %-14s %s %s / %s", "Storage", bar,
		humanize.IBytes(uint64(m.usage)), humanize.IBytes(uint64(quota)))
}
