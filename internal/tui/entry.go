package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitcal/internal/calendar"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/media"
)

// modalState is the entry dialog lifecycle. Opening and closing last
// modalAnimation and end on a modalTickMsg.
type modalState int

const (
	modalClosed modalState = iota
	modalOpening
	modalOpen
	modalClosing
)

var modalStateNames = map[modalState]string{
	modalClosed:  "closed",
	modalOpening: "opening",
	modalOpen:    "open",
	modalClosing: "closing",
}

func (s modalState) String() string { return modalStateNames[s] }

const modalAnimation = 200 * time.Millisecond

// modalTickMsg ends a transition. seq guards against ticks from a
// transition that was superseded (reopen while closing).
type modalTickMsg struct {
	seq int
}

type entryField int

const (
	fieldCompleted entryField = iota
	fieldNote
	fieldPhoto
	fieldAudio
	fieldCount
)

const (
	storageFullNotice     = "Storage full! Remove some old photos or audio clips and try again."
	mediaPermissionNotice = "Permission denied while reading media. Check the file permissions and try again."
)

type entryModel struct {
	records *habit.RecordStore

	state modalState
	seq   int

	key     string
	title   string
	holiday string

	completed bool
	note      textarea.Model
	photoPath textinput.Model
	audioPath textinput.Model
	photo     habit.Payload
	audio     habit.Payload

	focus entryField
	err   string
}

func newEntryModel(records *habit.RecordStore) entryModel {
	note := textarea.New()
	note.Placeholder = "How did it go?"
	note.ShowLineNumbers = false
	note.CharLimit = 2000
	note.SetWidth(48)
	note.SetHeight(4)

	photo := textinput.New()
	photo.Placeholder = "path to image, enter to attach"
	photo.Prompt = "  "

	audio := textinput.New()
	audio.Placeholder = "path to audio clip, enter to attach"
	audio.Prompt = "  "

	return entryModel{
		records:   records,
		note:      note,
		photoPath: photo,
		audioPath: audio,
	}
}

// visible reports whether the modal should be drawn and own key input.
func (e entryModel) visible() bool {
	return e.state == modalOpening || e.state == modalOpen
}

func (e entryModel) tick() tea.Cmd {
	seq := e.seq
	return tea.Tick(modalAnimation, func(time.Time) tea.Msg {
		return modalTickMsg{seq: seq}
	})
}

// open loads the day into the form and starts the opening transition.
func (e entryModel) open(c calendar.Cell, ym calendar.YearMonth) (entryModel, tea.Cmd) {
	rec, _ := e.records.Get(c.Key)

	e.key = c.Key
	e.title = fmt.Sprintf("%d %s", c.Day, calendar.MonthName(ym.Month))
	e.holiday = c.Holiday
	e.completed = rec.Completed
	e.note.SetValue(rec.Note)
	e.photo = rec.Photo
	e.audio = rec.Audio
	e.photoPath.SetValue("")
	e.audioPath.SetValue("")
	e.err = ""

	e.seq++
	e.state = modalOpening
	return e.setFocus(fieldCompleted), e.tick()
}

func (e entryModel) close() (entryModel, tea.Cmd) {
	if !e.visible() {
		return e, nil
	}
	e.note.Blur()
	e.photoPath.Blur()
	e.audioPath.Blur()
	e.seq++
	e.state = modalClosing
	return e, e.tick()
}

func (e entryModel) setFocus(f entryField) entryModel {
	e.focus = f
	e.note.Blur()
	e.photoPath.Blur()
	e.audioPath.Blur()
	switch f {
	case fieldNote:
		e.note.Focus()
	case fieldPhoto:
		e.photoPath.Focus()
	case fieldAudio:
		e.audioPath.Focus()
	}
	return e
}

func (e entryModel) record() habit.Record {
	return habit.Record{
		Completed: e.completed,
		Note:      e.note.Value(),
		Photo:     e.photo,
		Audio:     e.audio,
	}
}

func (e entryModel) update(msg tea.Msg) (entryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case modalTickMsg:
		if msg.seq != e.seq {
			return e, nil
		}
		switch e.state {
		case modalOpening:
			e.state = modalOpen
		case modalClosing:
			e.state = modalClosed
		}
		return e, nil

	case tea.KeyMsg:
		if !e.visible() {
			return e, nil
		}
		return e.updateKeys(msg)
	}
	return e, nil
}

func (e entryModel) updateKeys(msg tea.KeyMsg) (entryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return e.close()
	case key.Matches(msg, keys.Save):
		return e.save()
	case key.Matches(msg, keys.NextField):
		return e.setFocus((e.focus + 1) % fieldCount), nil
	case key.Matches(msg, keys.PrevField):
		return e.setFocus((e.focus + fieldCount - 1) % fieldCount), nil
	case key.Matches(msg, keys.Clear):
		switch e.focus {
		case fieldPhoto:
			e.photo = ""
			e.photoPath.SetValue("")
		case fieldAudio:
			e.audio = ""
			e.audioPath.SetValue("")
		}
		return e, nil
	}

	var cmd tea.Cmd
	switch e.focus {
	case fieldCompleted:
		if key.Matches(msg, keys.Toggle) || key.Matches(msg, keys.Enter) {
			e.completed = !e.completed
		}
	case fieldNote:
		e.note, cmd = e.note.Update(msg)
	case fieldPhoto:
		if key.Matches(msg, keys.Enter) {
			return e.attach(fieldPhoto)
		}
		e.photoPath, cmd = e.photoPath.Update(msg)
	case fieldAudio:
		if key.Matches(msg, keys.Enter) {
			return e.attach(fieldAudio)
		}
		e.audioPath, cmd = e.audioPath.Update(msg)
	}
	return e, cmd
}

// attach reads the typed path into the pending photo or audio payload.
func (e entryModel) attach(f entryField) (entryModel, tea.Cmd) {
	var (
		path string
		p    habit.Payload
		err  error
	)
	if f == fieldPhoto {
		path = strings.TrimSpace(e.photoPath.Value())
	} else {
		path = strings.TrimSpace(e.audioPath.Value())
	}
	if path == "" {
		return e, nil
	}

	if f == fieldPhoto {
		p, err = media.ReadPhoto(path)
	} else {
		p, err = media.ReadAudio(path)
	}
	if err != nil {
		if errors.Is(err, media.ErrMediaPermissionDenied) {
			return e, func() tea.Msg { return noticeMsg{text: mediaPermissionNotice} }
		}
		e.err = err.Error()
		return e, nil
	}

	e.err = ""
	if f == fieldPhoto {
		e.photo = p
		e.photoPath.SetValue("")
	} else {
		e.audio = p
		e.audioPath.SetValue("")
	}
	return e, nil
}

// save writes the form through the record store. The modal stays open on
// failure so nothing typed is lost.
func (e entryModel) save() (entryModel, tea.Cmd) {
	err := e.records.Upsert(e.key, e.record())
	if errors.Is(err, habit.ErrStorageQuotaExceeded) {
		return e, func() tea.Msg { return noticeMsg{text: storageFullNotice} }
	}
	if err != nil {
		e.err = err.Error()
		return e, nil
	}
	saved := e.key
	e, cmd := e.close()
	return e, tea.Batch(cmd, func() tea.Msg { return entrySavedMsg{key: saved} })
}

func (e entryModel) view(w int) string {
	title := titleStyle.Render(e.title)
	var rows []string
	rows = append(rows, title)
	if e.holiday != "" {
		rows = append(rows, holidayStyle.Render(e.holiday))
	}
	rows = append(rows, "")

	check := "[ ]"
	if e.completed {
		check = successStyle.Render("[✓]")
	}
	rows = append(rows, e.label(fieldCompleted, "Done")+" "+check)
	rows = append(rows, "")

	rows = append(rows, e.label(fieldNote, "Note"))
	rows = append(rows, e.note.View())
	rows = append(rows, "")

	rows = append(rows, e.label(fieldPhoto, "Photo")+" "+attachmentInfo(e.photo))
	rows = append(rows, e.photoPath.View())
	rows = append(rows, e.label(fieldAudio, "Audio")+" "+attachmentInfo(e.audio))
	rows = append(rows, e.audioPath.View())

	if e.err != "" {
		rows = append(rows, "", errorStyle.Render(truncate(e.err, max(10, w-8))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ctrl+s: save  tab: next field  ctrl+d: remove attachment  esc: close"))

	style := activePanelStyle
	if e.state == modalOpening {
		style = panelStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (e entryModel) label(f entryField, text string) string {
	if e.focus == f {
		return selectedItemStyle.Render("> " + text)
	}
	return normalItemStyle.Render("  " + text)
}

func attachmentInfo(p habit.Payload) string {
	if p.IsZero() {
		return mutedStyle.Render("none")
	}
	mt, _, _ := strings.Cut(strings.TrimPrefix(string(p), "data:"), ";")
	return highlightStyle.Render(fmt.Sprintf("%s, %s", mt, humanize.IBytes(uint64(media.Size(p)))))
}
