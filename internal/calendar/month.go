package calendar

import (
	"fmt"
	"time"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// YearMonth identifies a calendar page.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Of returns the page containing t.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ChangeMonth moves offset months forward (or back when negative),
// carrying into the year. There is no lower or upper bound.
func ChangeMonth(ym YearMonth, offset int) YearMonth {
	idx := ym.Year*12 + int(ym.Month-1) + offset
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%s %d", MonthName(ym.Month), ym.Year)
}

// MonthName returns the Indonesian name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return time.Date(ym.Year, ym.Month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday is the weekday of day 1, Sunday being 0.
func (ym YearMonth) FirstWeekday() time.Weekday {
	return time.Date(ym.Year, ym.Month, 1, 12, 0, 0, 0, time.UTC).Weekday()
}
