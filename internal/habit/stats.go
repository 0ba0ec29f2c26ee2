package habit

import "time"

// Stats summarizes one month of records.
type Stats struct {
	Days      int // days in the month
	Completed int
	Notes     int
	Photos    int
	Audio     int
	// Streak counts consecutive completed days ending today, or ending
	// yesterday when today is not done yet. It is not limited to the month.
	Streak int
}

// Rate is the share of days in the month marked complete.
func (s Stats) Rate() float64 {
	if s.Days == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Days)
}

// MonthStats counts the records of year/month.
func (rs *RecordStore) MonthStats(year int, month time.Month, today time.Time) Stats {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	st := Stats{Days: first.AddDate(0, 1, -1).Day()}

	for d := 1; d <= st.Days; d++ {
		r, ok := rs.records[DateKey(year, month, d)]
		if !ok {
			continue
		}
		if r.Completed {
			st.Completed++
		}
		if r.Note != "" {
			st.Notes++
		}
		if !r.Photo.IsZero() {
			st.Photos++
		}
		if !r.Audio.IsZero() {
			st.Audio++
		}
	}
	st.Streak = rs.Streak(today)
	return st
}

// Streak counts consecutive completed days ending at today (or yesterday).
func (rs *RecordStore) Streak(today time.Time) int {
	day := time.Date(today.Year(), today.Month(), today.Day(), 12, 0, 0, 0, time.UTC)
	if !rs.completedOn(day) {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for rs.completedOn(day) {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func (rs *RecordStore) completedOn(t time.Time) bool {
	r, ok := rs.records[KeyFor(t)]
	return ok && r.Completed
}
