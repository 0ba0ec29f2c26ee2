package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sadopc/habitcal/internal/calendar"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/media"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var now = time.Now

// parseDay accepts YYYY-MM-DD, "today" or "yesterday" and returns the key.
func parseDay(arg string) (string, error) {
	switch strings.ToLower(arg) {
	case "today":
		return habit.KeyFor(now()), nil
	case "yesterday":
		return habit.KeyFor(now().AddDate(0, 0, -1)), nil
	}
	if _, err := habit.ParseDateKey(arg); err != nil {
		return "", err
	}
	return arg, nil
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show [YYYY-MM]",
		Short: "Print a month as a text calendar",
		Long: `Prints the month grid with completed days marked "x" and holidays or
Sundays marked "*", followed by the month's holidays and notes.

Defaults to the current month.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ym := calendar.Of(now())
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("parse month %q: want YYYY-MM", args[0])
				}
				ym = calendar.Of(t)
			}
			g := calendar.Project(ym, e.records, e.holidayTable, "", now())
			printMonth(cmd.OutOrStdout(), g, e.records.MonthStats(ym.Year, ym.Month, now()))
			return nil
		},
	}
}

func printMonth(w io.Writer, g calendar.Grid, st habit.Stats) {
	fmt.Fprintf(w, "%s\n", g.YearMonth)
	fmt.Fprintln(w, "Min Sen Sel Rab Kam Jum Sab")
	for _, week := range g.Weeks() {
		var b strings.Builder
		blank := true
		for _, c := range week {
			if c.Padding {
				b.WriteString("    ")
				continue
			}
			blank = false
			mark := ' '
			switch c.Style() {
			case calendar.StyleCompleted:
				mark = 'x'
			case calendar.StyleHoliday:
				mark = '*'
			}
			fmt.Fprintf(&b, "%3d%c", c.Day, mark)
		}
		if !blank {
			fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
		}
	}

	fmt.Fprintf(w, "\nDone %d/%d  streak %d\n", st.Completed, st.Days, st.Streak)

	var holidays, notes []string
	for _, c := range g.Days() {
		if c.IsHoliday {
			holidays = append(holidays, fmt.Sprintf("  %2d  %s", c.Day, c.Holiday))
		}
		if c.HasNote || c.HasMedia() {
			notes = append(notes, c.Key)
		}
	}
	if len(holidays) > 0 {
		fmt.Fprintln(w, "\nHolidays")
		fmt.Fprintln(w, strings.Join(holidays, "\n"))
	}
	if len(notes) > 0 {
		fmt.Fprintln(w, "\nEntries with notes or media")
		for _, k := range notes {
			fmt.Fprintf(w, "  %s\n", k)
		}
	}
}

func newMarkCmd(e *env) *cobra.Command {
	var (
		note   string
		undone bool
		photo  string
		audio  string
	)
	cmd := &cobra.Command{
		Use:   "mark <date>",
		Short: "Mark a day done, optionally with a note or media",
		Long: `Marks a day (YYYY-MM-DD, "today" or "yesterday") as done. Fields that
are not given keep their stored values. --undone clears the flag instead;
a day left with nothing recorded is removed.

Examples:
  habitcal mark today --note "5 km"
  habitcal mark 2025-08-17 --photo upacara.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDay(args[0])
			if err != nil {
				return err
			}
			r, _ := e.records.Get(key)
			r.Completed = !undone
			if cmd.Flags().Changed("note") {
				r.Note = note
			}
			if photo != "" {
				if r.Photo, err = media.ReadPhoto(photo); err != nil {
					return err
				}
			}
			if audio != "" {
				if r.Audio, err = media.ReadAudio(audio); err != nil {
					return err
				}
			}

			if err := e.records.Upsert(key, r); err != nil {
				return err
			}
			e.logger.Info("marked", zap.String("date", key), zap.Bool("completed", r.Completed))

			state := "done"
			if _, ok := e.records.Get(key); !ok {
				state = "cleared"
			} else if !r.Completed {
				state = "not done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", key, state)
			return nil
		},
	}
	cmd.Flags().StringVarP(&note, "note", "n", "", "note text (empty string clears it)")
	cmd.Flags().BoolVar(&undone, "undone", false, "clear the done flag instead of setting it")
	cmd.Flags().StringVar(&photo, "photo", "", "attach an image file")
	cmd.Flags().StringVar(&audio, "audio", "", "attach an audio file")
	return cmd
}

func newClearCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <date>",
		Short: "Remove everything recorded for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDay(args[0])
			if err != nil {
				return err
			}
			if err := e.records.Remove(key); err != nil {
				return err
			}
			e.logger.Info("cleared", zap.String("date", key))
			fmt.Fprintf(cmd.OutOrStdout(), "%s cleared\n", key)
			return nil
		},
	}
}
