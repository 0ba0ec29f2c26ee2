package tui

import "github.com/sadopc/habitcal/internal/widget"

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewStats
	viewSettings
)

var viewNames = []string{"Calendar", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// noticeMsg raises a blocking notice that must be dismissed with a key.
type noticeMsg struct {
	text string
}

type entrySavedMsg struct {
	key string
}

type themeChangedMsg struct {
	theme string
}

type weatherMsg struct {
	weather widget.Weather
	err     error
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

var weekdayAbbr = []string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
