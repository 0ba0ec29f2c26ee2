package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/holiday"
	"github.com/sadopc/habitcal/internal/media"
)

// ToCSV writes one row per stored day, oldest first.
func ToCSV(records map[string]habit.Record, holidays *holiday.Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close csv file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"Date", "Weekday", "Holiday", "Completed", "Note", "Photo (bytes)", "Audio (bytes)"}); err != nil {
		return err
	}

	for _, key := range sortedKeys(records) {
		r := records[key]
		weekday, holidayName := "", ""
		if d, err := habit.ParseDateKey(key); err == nil {
			weekday = d.Weekday().String()
			holidayName, _ = holidays.Lookup(d.Year(), d.Month(), d.Day())
		}

		row := []string{
			key,
			weekday,
			holidayName,
			strconv.FormatBool(r.Completed),
			r.Note,
			formatSize(r.Photo),
			formatSize(r.Audio),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func formatSize(p habit.Payload) string {
	if p.IsZero() {
		return ""
	}
	return strconv.FormatInt(media.Size(p), 10)
}

// DefaultFileName is habitcal-export-<date>.<ext>.
func DefaultFileName(now time.Time, ext string) string {
	return fmt.Sprintf("habitcal-export-%s.%s", now.Format("2006-01-02"), ext)
}
