package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrQuotaExceeded is returned when a write would push the slots past the quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// ErrInvalidTheme is returned by SetTheme for anything but light or dark.
var ErrInvalidTheme = errors.New("invalid theme")

// GetSlot returns the value stored under key. ok is false when the slot is absent.
func (s *Store) GetSlot(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %q: %w", key, err)
	}
	return value, true, nil
}

// SetSlot writes value under key, replacing any previous value. The write is
// rejected with ErrQuotaExceeded if the slots would no longer fit the quota.
func (s *Store) SetSlot(key, value string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin set slot: %w", err)
	}
	defer tx.Rollback()

	if s.quota > 0 {
		var others int64
		err := tx.QueryRow(
			`SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0) FROM slots WHERE key != ?`,
			key,
		).Scan(&others)
		if err != nil {
			return fmt.Errorf("measure slots: %w", err)
		}
		need := Slot{Key: key, Value: value}.Size()
		if others+need > s.quota {
			return fmt.Errorf("set slot %q (%d bytes, %d in use, quota %d): %w", key, need, others, s.quota, ErrQuotaExceeded)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("set slot %q: %w", key, err)
	}
	return tx.Commit()
}

// DeleteSlot removes key. Deleting an absent slot is not an error.
func (s *Store) DeleteSlot(key string) error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) ListSlots() ([]Slot, error) {
	rows, err := s.db.Query(`SELECT key, value, updated_at FROM slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var sl Slot
		var updatedAt string
		if err := rows.Scan(&sl.Key, &sl.Value, &updatedAt); err != nil {
			return nil, err
		}
		sl.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// Usage returns the number of bytes currently counted against the quota.
func (s *Store) Usage() (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(length(CAST(key AS BLOB)) + length(CAST(value AS BLOB))), 0) FROM slots`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("slot usage: %w", err)
	}
	return total, nil
}

// Theme returns the stored theme, defaulting to light.
func (s *Store) Theme() (string, error) {
	v, ok, err := s.GetSlot(SlotTheme)
	if err != nil {
		return ThemeLight, err
	}
	if !ok || (v != ThemeLight && v != ThemeDark) {
		return ThemeLight, nil
	}
	return v, nil
}

func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("set theme %q: %w", theme, ErrInvalidTheme)
	}
	return s.SetSlot(SlotTheme, theme)
}

// Username returns the display name, or "" if none was saved.
func (s *Store) Username() (string, error) {
	v, _, err := s.GetSlot(SlotUsername)
	return v, err
}

// SetUsername stores name; an empty name clears the slot.
func (s *Store) SetUsername(name string) error {
	if name == "" {
		return s.DeleteSlot(SlotUsername)
	}
	return s.SetSlot(SlotUsername, name)
}
