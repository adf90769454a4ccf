package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency describes how often a recurring income pays out.
type Frequency string

const (
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

// ParseFrequency validates a wire-format frequency string.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Weekly, BiWeekly, Monthly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency: %q", s)
}

// dateLayout is the wire format for calendar dates. Dates are plain calendar
// values with no time component; they are materialized at midnight UTC so that
// formatting never shifts the day.
const dateLayout = "2006-01-02"

// Date builds a calendar date from its fields.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Format renders a calendar date as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(dateLayout)
}

// Parse reads a YYYY-MM-DD calendar date.
func Parse(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Next returns the occurrence that follows d for the given frequency.
// Weekly and bi-weekly advance by exact day counts. Monthly keeps d's
// day-of-month and clips it when the next month is shorter, so Jan 31
// advances to Feb 28 (or Feb 29 in a leap year).
func Next(d time.Time, f Frequency) time.Time {
	switch f {
	case Weekly:
		return d.AddDate(0, 0, 7)
	case BiWeekly:
		return d.AddDate(0, 0, 14)
	case Monthly:
		ym := YearMonthOf(d).Next()
		return DayInMonth(ym, d.Day())
	}
	return d
}

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month int
}

// YearMonthOf returns the month containing the given date.
func YearMonthOf(d time.Time) YearMonth {
	return YearMonth{Year: d.Year(), Month: int(d.Month())}
}

// AddMonths returns the month n months after ym, carrying overflow into the
// year.
func (ym YearMonth) AddMonths(n int) YearMonth {
	months := ym.Year*12 + (ym.Month - 1) + n
	return YearMonth{Year: months / 12, Month: months%12 + 1}
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return ym.AddMonths(1)
}

// FirstDay returns the first calendar day of the month.
func (ym YearMonth) FirstDay() time.Time {
	return Date(ym.Year, time.Month(ym.Month), 1)
}

// Equal returns true when both the year and month match.
func (ym YearMonth) Equal(other YearMonth) bool {
	return ym.Year == other.Year && ym.Month == other.Month
}

// Before reports whether ym refers to a month that occurs before other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// After reports whether ym refers to a month that occurs after other.
func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}
	return ym.Month > other.Month
}

// String returns the month as YYYY-MM, e.g. "2025-03".
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// YearMonthFromString converts "2025-03" to a YearMonth.
func YearMonthFromString(s string) (YearMonth, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return YearMonth{}, fmt.Errorf("invalid year-month format: %s", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid year: %w", err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month: %w", err)
	}
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("month out of range: %d", month)
	}
	return YearMonth{Year: year, Month: month}, nil
}

// DaysIn returns the number of calendar days in the month.
func (ym YearMonth) DaysIn() int {
	// Day zero of the following month is the last day of this one.
	return Date(ym.Year, time.Month(ym.Month)+1, 0).Day()
}

// DayInMonth places a day-of-month inside the given month, clipping it to the
// last day when the month is shorter (31 → 30, or 28/29 in February).
func DayInMonth(ym YearMonth, day int) time.Time {
	if last := ym.DaysIn(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return Date(ym.Year, time.Month(ym.Month), day)
}
