package main

import (
	"fmt"
	"os"

	"github.com/sadopc/habitcal/internal/export"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/media"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(e *env) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all days to CSV or JSON",
		Long: `Writes one row per recorded day. Photo and audio columns carry sizes,
not the media itself; use "habitcal media extract" for that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = export.DefaultFileName(now(), format)
			}
			records := e.records.Snapshot()

			var err error
			switch format {
			case "csv":
				err = export.ToCSV(records, e.holidayTable, out)
			case "json":
				err = export.ToJSON(records, out)
			default:
				return fmt.Errorf("unknown format %q: want csv or json", format)
			}
			if err != nil {
				return err
			}
			e.logger.Info("exported", zap.String("path", out), zap.Int("records", len(records)))
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d days to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default habitcal-export-<date>.<format>)")
	return cmd
}

func newMediaCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Work with stored photos and audio clips",
	}

	var dir string
	extract := &cobra.Command{
		Use:   "extract <date>",
		Short: "Write a day's photo and audio back to files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDay(args[0])
			if err != nil {
				return err
			}
			r, ok := e.records.Get(key)
			if !ok || (r.Photo.IsZero() && r.Audio.IsZero()) {
				return fmt.Errorf("no media stored for %s", key)
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			for _, m := range []struct {
				name string
				p    habit.Payload
			}{
				{key + "-photo", r.Photo},
				{key + "-audio", r.Audio},
			} {
				if m.p.IsZero() {
					continue
				}
				path, err := media.WriteFile(m.p, dir, m.name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	extract.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")

	cmd.AddCommand(extract)
	return cmd
}
