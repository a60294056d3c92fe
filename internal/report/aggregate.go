// Package report turns a person's time-away records and entitlement into
// monthly and quarterly totals, the dashboard summary and chart series.
package report

import (
	"slices"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

const (
	// Months is the number of monthly buckets in a business year.
	Months = 12
	// Quarters is the number of quarterly buckets in a business year.
	Quarters = 4
)

// Aggregation holds the per-month and per-quarter totals of a year.
type Aggregation struct {
	// Entries are the counted breakdown days in date order.
	Entries []model.TimeAwayBreakdown `json:"-"`
	// Monthly counts entries per month of the period, half days included as
	// whole entries.
	Monthly [Months]int `json:"monthly"`
	// WeightedMonthly is Monthly with half days counted as 0.5.
	WeightedMonthly [Months]float64 `json:"weightedMonthly"`
	Cumulative      [Months]int     `json:"cumulative"`
	Quarterly       [Quarters]int   `json:"quarterly"`
	Total           int             `json:"total"`

	// AllowedHoliday is allowance plus days carried over.
	AllowedHoliday model.Days `json:"allowedHoliday"`
	// MinimumHoliday is what must be taken to avoid losing days.
	MinimumHoliday model.Days `json:"minimumHoliday"`
}

// Aggregate buckets the weekday breakdown entries of records that fall in
// yearInterval by month offset from the start of period.
func Aggregate(records []model.TimeAway, period model.TimeAwayPeriod, yearInterval model.DateInterval) Aggregation {
	var agg Aggregation

	for _, r := range records {
		for _, b := range r.Breakdown {
			if timecalc.IsWeekend(b.Date) || !timecalc.Within(b.Date, yearInterval) {
				continue
			}
			agg.Entries = append(agg.Entries, b)
		}
	}
	slices.SortStableFunc(agg.Entries, func(a, b model.TimeAwayBreakdown) int {
		return a.Date.Compare(b.Date)
	})

	counted := agg.Entries[:0]
	for _, b := range agg.Entries {
		m := timecalc.MonthsBetween(b.Date, period.Period.Start)
		if m < 0 || m >= Months {
			continue
		}
		agg.Monthly[m]++
		agg.WeightedMonthly[m] += b.Weight()
		counted = append(counted, b)
	}
	agg.Entries = counted

	running := 0
	for i, n := range agg.Monthly {
		running += n
		agg.Cumulative[i] = running
		agg.Quarterly[i/3] += n
	}
	agg.Total = running

	agg.AllowedHoliday = period.Allowance + period.CarriedOver
	agg.MinimumHoliday = agg.AllowedHoliday - period.MaxCarryOver
	return agg
}
