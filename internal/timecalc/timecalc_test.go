package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestBusinessYearStart(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, 7, 15, 12, 0, 0, 0, time.Local), date(2024, 4, 1)},
		{time.Date(2024, 2, 10, 9, 0, 0, 0, time.Local), date(2023, 4, 1)},
		{time.Date(2024, 12, 31, 23, 0, 0, 0, time.Local), date(2024, 4, 1)},
		{time.Date(2024, 4, 1, 0, 0, 1, 0, time.Local), date(2024, 4, 1)},
		// April 1st midnight itself is not in the past yet.
		{date(2024, 4, 1), date(2023, 4, 1)},
	}
	for _, tt := range tests {
		got := timecalc.BusinessYearStart(tt.now)
		if !got.Equal(tt.want) {
			t.Errorf("BusinessYearStart(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestBusinessYearIntervalBoundaries(t *testing.T) {
	for year := 2000; year <= 2040; year++ {
		now := time.Date(year, 6, 1, 10, 0, 0, 0, time.Local)
		iv := timecalc.BusinessYearInterval(now)
		if iv.Start.Month() != time.April || iv.Start.Day() != 1 {
			t.Fatalf("year %d: start %v is not April 1", year, iv.Start)
		}
		next := timecalc.BusinessYearInterval(time.Date(year+1, 6, 1, 10, 0, 0, 0, time.Local))
		if !iv.End.Add(time.Second).Equal(next.Start) {
			t.Fatalf("year %d: end %v is not one second before %v", year, iv.End, next.Start)
		}
		if iv.Start.After(iv.End) {
			t.Fatalf("year %d: start after end", year)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := timecalc.ParseDate("2024-07-28")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(date(2024, 7, 28)) {
		t.Errorf("ParseDate = %v, want local 2024-07-28", got)
	}
	if got.Location() != time.Local {
		t.Errorf("ParseDate location = %v, want Local", got.Location())
	}
	for _, bad := range []string{"", "2024/07/28", "28-07-2024", "2024-13-01"} {
		if _, err := timecalc.ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): expected error", bad)
		}
	}
}

func TestWeekBounds(t *testing.T) {
	// 2024-08-01 is a Thursday.
	thu := time.Date(2024, 8, 1, 15, 0, 0, 0, time.Local)
	if got := timecalc.StartOfWeek(thu); !got.Equal(date(2024, 7, 29)) {
		t.Errorf("StartOfWeek = %v, want 2024-07-29", got)
	}
	if got := timecalc.EndOfWeek(thu); !got.Equal(time.Date(2024, 8, 4, 23, 59, 59, 0, time.Local)) {
		t.Errorf("EndOfWeek = %v, want 2024-08-04 23:59:59", got)
	}
	sun := date(2024, 8, 4)
	if got := timecalc.StartOfWeek(sun); !got.Equal(date(2024, 7, 29)) {
		t.Errorf("StartOfWeek(sunday) = %v, want 2024-07-29", got)
	}
	mon := date(2024, 7, 1)
	if got := timecalc.StartOfWeek(mon); !got.Equal(mon) {
		t.Errorf("StartOfWeek(monday) = %v, want itself", got)
	}
}

func TestWeekRangeAndLabel(t *testing.T) {
	wr := timecalc.WeekRange(date(2024, 8, 1))
	if !wr.Start.Equal(date(2024, 7, 29)) || !timecalc.SameDay(wr.End, date(2024, 8, 4)) {
		t.Errorf("WeekRange = %v..%v", wr.Start, wr.End)
	}
	if got := timecalc.ISOWeekLabel(date(2024, 8, 1)); got != "2024-W31" {
		t.Errorf("ISOWeekLabel = %q, want 2024-W31", got)
	}
	if got := timecalc.ISOWeekLabel(date(2024, 12, 30)); got != "2025-W01" {
		t.Errorf("ISOWeekLabel = %q, want 2025-W01", got)
	}
}

func TestMonthBounds(t *testing.T) {
	mid := time.Date(2024, 2, 14, 8, 0, 0, 0, time.Local)
	if got := timecalc.StartOfMonth(mid); !got.Equal(date(2024, 2, 1)) {
		t.Errorf("StartOfMonth = %v", got)
	}
	if got := timecalc.EndOfMonth(mid); !got.Equal(time.Date(2024, 2, 29, 23, 59, 59, 0, time.Local)) {
		t.Errorf("EndOfMonth = %v, want leap day", got)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{date(2024, 1, 31), 1, date(2024, 2, 29)},
		{date(2024, 4, 1), 6, date(2024, 10, 1)},
		{date(2024, 4, 1), 11, date(2025, 3, 1)},
		{date(2024, 3, 31), -1, date(2024, 2, 29)},
	}
	for _, tt := range tests {
		if got := timecalc.AddMonths(tt.in, tt.n); !got.Equal(tt.want) {
			t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b time.Time
		want int
	}{
		{date(2024, 7, 1), date(2024, 7, 1), 0},
		{date(2024, 7, 1), timecalc.EndOfDay(date(2024, 7, 1)), 0},
		{date(2024, 7, 29), timecalc.EndOfDay(date(2024, 9, 1)), 34},
		{date(2024, 3, 1), date(2024, 4, 1), 31},
		{date(2024, 4, 1), date(2024, 3, 1), -31},
	}
	for _, tt := range tests {
		if got := timecalc.DaysBetween(tt.a, tt.b); got != tt.want {
			t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	start := date(2024, 4, 1)
	tests := []struct {
		later time.Time
		want  int
	}{
		{date(2024, 4, 1), 0},
		{date(2024, 4, 30), 0},
		{date(2024, 5, 1), 1},
		{date(2024, 12, 24), 8},
		{date(2025, 3, 31), 11},
		{date(2025, 4, 1), 12},
		{date(2024, 3, 15), 0},
		{date(2024, 2, 29), -1},
	}
	for _, tt := range tests {
		if got := timecalc.MonthsBetween(tt.later, start); got != tt.want {
			t.Errorf("MonthsBetween(%v, %v) = %d, want %d", tt.later, start, got, tt.want)
		}
	}
	mid := date(2024, 4, 15)
	if got := timecalc.MonthsBetween(date(2024, 5, 14), mid); got != 0 {
		t.Errorf("MonthsBetween partial month = %d, want 0", got)
	}
}

func TestIsWeekend(t *testing.T) {
	if !timecalc.IsWeekend(date(2024, 8, 3)) || !timecalc.IsWeekend(date(2024, 8, 4)) {
		t.Error("expected Saturday and Sunday to be weekend")
	}
	if timecalc.IsWeekend(date(2024, 8, 2)) || timecalc.IsWeekend(date(2024, 8, 5)) {
		t.Error("expected Friday and Monday to be weekdays")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 27, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	if !timecalc.SameDay(a, b) {
		t.Error("SameDay: expected same day for a and b")
	}
	if timecalc.SameDay(a, c) {
		t.Error("SameDay: expected different day for a and c")
	}
}

func TestOverlapsInclusive(t *testing.T) {
	july := model.DateInterval{Start: date(2024, 7, 1), End: timecalc.EndOfDay(date(2024, 7, 31))}
	tests := []struct {
		name string
		iv   model.DateInterval
		want bool
	}{
		{"inside", model.DateInterval{Start: date(2024, 7, 10), End: timecalc.EndOfDay(date(2024, 7, 12))}, true},
		{"touches start", model.DateInterval{Start: date(2024, 6, 20), End: date(2024, 7, 1)}, true},
		{"touches end", model.DateInterval{Start: timecalc.EndOfDay(date(2024, 7, 31)), End: timecalc.EndOfDay(date(2024, 8, 2))}, true},
		{"before", model.DateInterval{Start: date(2024, 6, 1), End: timecalc.EndOfDay(date(2024, 6, 30))}, false},
		{"after", model.DateInterval{Start: date(2024, 8, 1), End: timecalc.EndOfDay(date(2024, 8, 1))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timecalc.Overlaps(july, tt.iv); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := timecalc.Overlaps(tt.iv, july); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}
