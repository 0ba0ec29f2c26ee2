package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitcal/internal/store"
)

const maxUsernameLen = 40

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	slots      []store.Slot
	username   string
	theme      string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formUsername *string
	formTheme    *string
}

func newSettingsModel(s *store.Store) settingsModel {
	u, th := "", ""
	return settingsModel{
		store:        s,
		theme:        store.ThemeLight,
		formUsername: &u,
		formTheme:    &th,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	slots    []store.Slot
	username string
	theme    string
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		slots, _ := s.store.ListSlots()
		name, _ := s.store.Username()
		theme, _ := s.store.Theme()
		return settingsDataMsg{slots: slots, username: name, theme: theme}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.slots = msg.slots
		s.username = msg.username
		s.theme = msg.theme
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.formUsername = s.username
	*s.formTheme = s.theme
	if *s.formTheme == "" {
		*s.formTheme = store.ThemeLight
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Your name").
				Description("Shown in the greeting. Leave empty to hide it.").
				CharLimit(maxUsernameLen).
				Validate(validateUsername).
				Value(s.formUsername),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Light", store.ThemeLight),
					huh.NewOption("Dark", store.ThemeDark),
				).Value(s.formTheme),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateUsername(v string) error {
	if strings.ContainsAny(v, "\n\t") {
		return fmt.Errorf("name must be a single line")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}

	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	name := strings.TrimSpace(*s.formUsername)
	theme := *s.formTheme
	return func() tea.Msg {
		if err := s.store.SetUsername(name); err != nil {
			return statusMsg{text: fmt.Sprintf("Save name: %v", err), isError: true}
		}
		if err := s.store.SetTheme(theme); err != nil {
			return statusMsg{text: fmt.Sprintf("Save theme: %v", err), isError: true}
		}
		return themeChangedMsg{theme: theme}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	name := s.username
	if name == "" {
		name = mutedStyle.Render("(not set)")
	} else {
		name = highlightStyle.Render(name)
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(16).Render("Name"), name))
	rows = append(rows, fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(16).Render("Theme"), highlightStyle.Render(s.theme)))
	rows = append(rows, "")

	rows = append(rows, subtitleStyle.Render("  Stored data"))
	var total int64
	for _, sl := range s.slots {
		label := lipgloss.NewStyle().Width(16).Render(sl.Key)
		rows = append(rows, fmt.Sprintf("  %s %10s  %s", label,
			humanize.IBytes(uint64(sl.Size())), mutedStyle.Render(humanize.Time(sl.UpdatedAt))))
		total += sl.Size()
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s %10s", lipgloss.NewStyle().Width(16).Render("total"), humanize.IBytes(uint64(total)))))

	rows = append(rows, "", hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
