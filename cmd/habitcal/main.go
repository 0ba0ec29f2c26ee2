package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitcal/internal/config"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/holiday"
	"github.com/sadopc/habitcal/internal/logging"
	"github.com/sadopc/habitcal/internal/store"
	"github.com/sadopc/habitcal/internal/tui"
	"github.com/sadopc/habitcal/internal/widget"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs once the persistent flags are parsed.
type env struct {
	// flags
	dbPath   string
	holidays string
	verbose  bool

	cfg          config.Config
	logger       *zap.Logger
	store        *store.Store
	records      *habit.RecordStore
	holidayTable *holiday.Table
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "habitcal",
		Short: "A monthly habit calendar for the terminal",
		Long: `habitcal tracks one habit on a monthly calendar. Each day can be marked
done and carry a note, a photo and a short audio clip.

Run without arguments to open the interactive calendar.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.setup,
		PersistentPostRun: func(*cobra.Command, []string) { e.close() },
		RunE:              e.runTUI,
	}

	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "database file (default: $HABITCAL_DB_PATH or the user config dir)")
	root.PersistentFlags().StringVar(&e.holidays, "holidays", "", "YAML holiday table merged over the bundled one")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newShowCmd(e),
		newMarkCmd(e),
		newClearCmd(e),
		newExportCmd(e),
		newMediaCmd(e),
	)
	return root
}

func (e *env) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if e.dbPath != "" {
		cfg.SetDBPath(e.dbPath)
	}
	if e.holidays != "" {
		cfg.HolidaysFile = e.holidays
	}
	if e.verbose {
		cfg.LogLevel = "debug"
	}
	e.cfg = cfg

	e.logger, err = logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	e.holidayTable = holiday.Default()
	if cfg.HolidaysFile != "" {
		extra, err := holiday.LoadFile(cfg.HolidaysFile)
		if err != nil {
			return err
		}
		e.holidayTable = e.holidayTable.Merge(extra)
	}

	e.store, err = store.New(cfg.DBPath, store.WithQuota(cfg.QuotaBytes))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	e.records = habit.Open(e.store, e.logger)

	e.logger.Debug("started",
		zap.String("command", cmd.Name()),
		zap.String("db", cfg.DBPath),
		zap.Int("records", e.records.Len()),
		zap.Int("holidays", e.holidayTable.Len()),
	)
	return nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	if e.logger != nil {
		_ = e.logger.Sync()
	}
}

func (e *env) runTUI(*cobra.Command, []string) error {
	opts := []tui.Option{tui.WithLogger(e.logger)}
	if w := e.cfg.Weather; w.Enabled {
		opts = append(opts, tui.WithWeather(widget.NewWeather(w.URL, w.Latitude, w.Longitude, w.Timeout)))
	}

	app := tui.NewApp(e.store, e.records, e.holidayTable, opts...)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
