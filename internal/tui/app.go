package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitcal/internal/export"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/holiday"
	"github.com/sadopc/habitcal/internal/store"
	"github.com/sadopc/habitcal/internal/widget"
	"go.uber.org/zap"
)

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	records  *habit.RecordStore
	holidays *holiday.Table
	weather  *widget.WeatherClient
	logger   *zap.Logger
	now      func() time.Time
	exportTo string

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	calendar calendarModel
	stats    statsModel
	settings settingsModel

	help     help.Model
	status   string
	isError  bool
	notice   string
	username string
	forecast *widget.Weather
}

// Option configures an App.
type Option func(*App)

// WithWeather enables the weather widget in the header.
func WithWeather(c *widget.WeatherClient) Option {
	return func(a *App) { a.weather = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithExportDir sets where the export picker writes files. Defaults to the
// home directory.
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportTo = dir }
}

func NewApp(s *store.Store, records *habit.RecordStore, holidays *holiday.Table, opts ...Option) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		records:    records,
		holidays:   holidays,
		logger:     zap.NewNop(),
		now:        time.Now,
		activeView: viewCalendar,
		help:       h,
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.exportTo == "" {
		a.exportTo, _ = os.UserHomeDir()
	}

	theme, err := s.Theme()
	if err != nil {
		a.logger.Warn("read theme", zap.Error(err))
	}
	applyTheme(theme)
	a.username, _ = s.Username()

	a.calendar = newCalendarModel(records, holidays, a.now)
	a.stats = newStatsModel(s, records, a.now)
	a.settings = newSettingsModel(s)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		a.fetchWeather(),
	)
}

func (a App) fetchWeather() tea.Cmd {
	if a.weather == nil {
		return nil
	}
	c := a.weather
	return func() tea.Msg {
		w, err := c.Fetch(context.Background())
		return weatherMsg{weather: w, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.calendar.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// A notice blocks everything until dismissed.
		if a.notice != "" {
			if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
				a.notice = ""
			}
			return a, nil
		}

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewCalendar
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case modalTickMsg:
		var cmd tea.Cmd
		a.calendar, cmd = a.calendar.update(msg)
		return a, cmd

	case noticeMsg:
		a.notice = msg.text
		a.logger.Info("notice shown", zap.String("text", msg.text))
		return a, nil

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		if msg.isError {
			a.logger.Warn("status error", zap.String("text", msg.text))
		}
		return a, nil

	case entrySavedMsg:
		a.status = "Saved " + msg.key
		a.isError = false
		return a, nil

	case themeChangedMsg:
		applyTheme(msg.theme)
		a.username, _ = a.store.Username()
		a.status = "Settings saved"
		a.isError = false
		// Re-read only after the write has landed.
		return a, a.settings.refresh()

	case weatherMsg:
		if msg.err != nil {
			a.logger.Debug("weather unavailable", zap.Error(msg.err))
			a.forecast = nil
			return a, nil
		}
		w := msg.weather
		a.forecast = &w
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isError = false
		a.exportPicking = false
		a.logger.Info("exported", zap.String("path", msg.path))
		return a, nil

	case settingsDataMsg:
		a.username = msg.username
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case statsDataMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewCalendar:
		return a.calendar.entry.visible()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewStats:
		return a.stats.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCalendar:
		content = a.calendar.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}
	if a.notice != "" {
		content = lipgloss.Place(a.width, contentHeight, lipgloss.Center, lipgloss.Center, a.renderNotice())
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// greeting returns an Indonesian time-of-day greeting.
func greeting(t time.Time, name string) string {
	var g string
	switch h := t.Hour(); {
	case h < 11:
		g = "Selamat pagi"
	case h < 15:
		g = "Selamat siang"
	case h < 18:
		g = "Selamat sore"
	default:
		g = "Selamat malam"
	}
	if name == "" {
		return g
	}
	return g + ", " + name
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("habitcal")
	hello := subtitleStyle.Render("  " + greeting(a.now(), a.username))
	if a.forecast != nil {
		hello += mutedStyle.Render("  ·  " + a.forecast.String())
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, title, hello)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderNotice() string {
	w := min(60, max(20, a.width-8))
	return noticeStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		a.notice, "", mutedStyle.Render("enter: OK"),
	))
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the records on the event loop; the returned command
// only touches the copy.
func (a App) doExport(format int) tea.Cmd {
	records := a.records.Snapshot()
	holidays := a.holidays
	dir := a.exportTo
	now := a.now()

	return func() tea.Msg {
		var path string
		if format == 0 {
			path = filepath.Join(dir, export.DefaultFileName(now, "csv"))
			if err := export.ToCSV(records, holidays, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.DefaultFileName(now, "json"))
			if err := export.ToJSON(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path}
	}
}
