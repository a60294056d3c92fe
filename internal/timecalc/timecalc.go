package timecalc

import (
	"fmt"
	"time"

	"github.com/Tiliavir/pto/internal/model"
)

// BusinessYearStartMonth is the first month of the organisation's business year.
const BusinessYearStartMonth = time.April

// BusinessYearStart returns April 1st of now's year if that moment has already
// passed, otherwise April 1st of the previous year.
func BusinessYearStart(now time.Time) time.Time {
	start := time.Date(now.Year(), BusinessYearStartMonth, 1, 0, 0, 0, 0, now.Location())
	if start.Before(now) {
		return start
	}
	return time.Date(now.Year()-1, BusinessYearStartMonth, 1, 0, 0, 0, 0, now.Location())
}

// BusinessYearInterval returns the business year containing now. The end is
// one second before the next business year starts.
func BusinessYearInterval(now time.Time) model.DateInterval {
	return YearIntervalFrom(BusinessYearStart(now))
}

// YearIntervalFrom returns the year-long interval starting at start.
func YearIntervalFrom(start time.Time) model.DateInterval {
	return model.DateInterval{
		Start: start,
		End:   start.AddDate(1, 0, 0).Add(-time.Second),
	}
}

// ParseDate parses a plain "yyyy-MM-dd" date in local time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as "yyyy-MM-dd".
func FormatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns 23:59:59 on the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	return EndOfDay(last)
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	return StartOfDay(t.AddDate(0, 0, -(wd - 1)))
}

// EndOfWeek returns 23:59:59 of the Sunday on or after t.
func EndOfWeek(t time.Time) time.Time {
	return EndOfDay(StartOfWeek(t).AddDate(0, 0, 6))
}

// WeekRange returns the Monday-to-Sunday week containing t.
func WeekRange(t time.Time) model.DateInterval {
	return model.DateInterval{Start: StartOfWeek(t), End: EndOfWeek(t)}
}

// ISOWeekLabel returns a label like "2024-W31".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// AddMonths adds n calendar months, clamping the day to the end of the
// target month (Jan 31 + 1 month is Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := EndOfMonth(first).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// DaysBetween returns the number of calendar days from a to b, ignoring the
// time of day. It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// MonthsBetween returns the number of whole months between earlier and later.
func MonthsBetween(later, earlier time.Time) int {
	if later.Before(earlier) {
		return -MonthsBetween(earlier, later)
	}
	months := (later.Year()-earlier.Year())*12 + int(later.Month()-earlier.Month())
	if months > 0 && AddMonths(earlier, months).After(later) {
		months--
	}
	return months
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Within reports whether t lies in iv, bounds included.
func Within(t time.Time, iv model.DateInterval) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// Overlaps reports whether two intervals share at least one instant, bounds
// included.
func Overlaps(a, b model.DateInterval) bool {
	return !a.End.Before(b.Start) && !b.End.Before(a.Start)
}

// MaxTime returns the later of a and b.
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinTime returns the earlier of a and b.
func MinTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
