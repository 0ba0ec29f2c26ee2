package export

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/habitcal/internal/habit"
	"github.com/sadopc/habitcal/internal/media"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Completed  int         `json:"completed"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Date       string `json:"date"`
	Completed  bool   `json:"completed"`
	Note       string `json:"note,omitempty"`
	PhotoBytes int64  `json:"photo_bytes,omitempty"`
	PhotoSize  string `json:"photo_size,omitempty"`
	AudioBytes int64  `json:"audio_bytes,omitempty"`
	AudioSize  string `json:"audio_size,omitempty"`
}

// ToJSON writes a summary of every stored day. Media payloads are reported
// by size only.
func ToJSON(records map[string]habit.Record, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, key := range sortedKeys(records) {
		r := records[key]
		if r.Completed {
			export.Completed++
		}
		e := jsonEntry{Date: key, Completed: r.Completed, Note: r.Note}
		if !r.Photo.IsZero() {
			e.PhotoBytes = media.Size(r.Photo)
			e.PhotoSize = humanize.IBytes(uint64(e.PhotoBytes))
		}
		if !r.Audio.IsZero() {
			e.AudioBytes = media.Size(r.Audio)
			e.AudioSize = humanize.IBytes(uint64(e.AudioBytes))
		}
		export.Entries = append(export.Entries, e)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func sortedKeys(records map[string]habit.Record) []string {
	return slices.Sorted(maps.Keys(records))
}
