package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitcal/internal/store"
)

type palette struct {
	primary   lipgloss.Color
	onPrimary lipgloss.Color
	holiday   lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	errorC    lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var palettes = map[string]palette{
	store.ThemeDark: {
		primary:   lipgloss.Color("#6C63FF"),
		onPrimary: lipgloss.Color("#FFFFFF"),
		holiday:   lipgloss.Color("#FF6B6B"),
		muted:     lipgloss.Color("#666666"),
		success:   lipgloss.Color("#2ECC71"),
		warning:   lipgloss.Color("#F39C12"),
		errorC:    lipgloss.Color("#E74C3C"),
		fg:        lipgloss.Color("#C0CAF5"),
		subtle:    lipgloss.Color("#414868"),
		highlight: lipgloss.Color("#7AA2F7"),
	},
	store.ThemeLight: {
		primary:   lipgloss.Color("#6366F1"),
		onPrimary: lipgloss.Color("#FFFFFF"),
		holiday:   lipgloss.Color("#EF4444"),
		muted:     lipgloss.Color("#94A3B8"),
		success:   lipgloss.Color("#16A34A"),
		warning:   lipgloss.Color("#D97706"),
		errorC:    lipgloss.Color("#DC2626"),
		fg:        lipgloss.Color("#334155"),
		subtle:    lipgloss.Color("#CBD5E1"),
		highlight: lipgloss.Color("#4F46E5"),
	},
}

var currentTheme string

// Color palette
var (
	colorPrimary   lipgloss.Color
	colorOnPrimary lipgloss.Color
	colorHoliday   lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
)

// Styles
var (
	// Tabs
	activeTabStyle   lipgloss.Style
	inactiveTabStyle lipgloss.Style

	// Panels
	panelStyle       lipgloss.Style
	activePanelStyle lipgloss.Style
	noticeStyle      lipgloss.Style

	// Calendar cells
	cellStyle          lipgloss.Style
	cellHolidayStyle   lipgloss.Style
	cellCompletedStyle lipgloss.Style
	weekdayHeaderStyle lipgloss.Style

	// Text
	titleStyle     lipgloss.Style
	subtitleStyle  lipgloss.Style
	successStyle   lipgloss.Style
	warningStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	mutedStyle     lipgloss.Style
	highlightStyle lipgloss.Style
	holidayStyle   lipgloss.Style

	// Header/footer
	headerStyle lipgloss.Style
	footerStyle lipgloss.Style

	// List items
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	applyTheme(store.ThemeLight)
}

// applyTheme rebuilds every style from the named palette. Unknown names fall
// back to light.
func applyTheme(name string) {
	p, ok := palettes[name]
	if !ok {
		name = store.ThemeLight
		p = palettes[name]
	}
	currentTheme = name

	colorPrimary = p.primary
	colorOnPrimary = p.onPrimary
	colorHoliday = p.holiday
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.errorC
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	noticeStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(colorError).
		Foreground(colorError).
		Bold(true).
		Padding(1, 3)

	cellStyle = lipgloss.NewStyle().
		Width(7).
		Foreground(colorFg)

	cellHolidayStyle = cellStyle.
		Foreground(colorHoliday)

	cellCompletedStyle = cellStyle.
		Foreground(colorOnPrimary).
		Background(colorPrimary).
		Bold(true)

	weekdayHeaderStyle = lipgloss.NewStyle().
		Width(7).
		Foreground(colorMuted).
		Bold(true)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
		Foreground(colorHighlight)

	holidayStyle = lipgloss.NewStyle().
		Foreground(colorHoliday)

	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	normalItemStyle = lipgloss.NewStyle().
		Foreground(colorFg)
}
