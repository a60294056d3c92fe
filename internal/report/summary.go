package report

import (
	"time"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

const (
	// FirstHalfTarget is the number of days to take before October.
	FirstHalfTarget = 15
	// FirstHalfMonths is the length of the first half of the period.
	FirstHalfMonths = 6
)

// Summary is the headline table of a person's year.
type Summary struct {
	Name                  string     `json:"name"`
	Allowance             model.Days `json:"allowance"`
	CarriedOver           model.Days `json:"carriedOver"`
	AllowanceWithRollover model.Days `json:"allowanceWithRollover"`
	Used                  model.Days `json:"used"`
	Upcoming              model.Days `json:"upcoming"`
	Remaining             model.Days `json:"remaining"`
	MaxCarryOver          model.Days `json:"maxCarryOver"`
	DaysInFirstHalf       float64    `json:"daysInFirstHalf"`

	// DaysToBookBeforeOct1 is set before October 1st.
	DaysToBookBeforeOct1 *model.Days `json:"daysToBookBeforeOct1,omitempty"`
	// DaysToBookBeforeDec1 is set from October 1st to December 1st.
	DaysToBookBeforeDec1 *model.Days `json:"daysToBookBeforeDec1,omitempty"`
}

// Summarize computes the summary as seen at now.
func Summarize(person model.Person, period model.TimeAwayPeriod, records []model.TimeAway, now time.Time) Summary {
	withRollover := period.Allowance + period.CarriedOver
	s := Summary{
		Name:                  person.Name,
		Allowance:             period.Allowance,
		CarriedOver:           period.CarriedOver,
		AllowanceWithRollover: withRollover,
		Used:                  period.Used,
		Upcoming:              period.Upcoming,
		Remaining:             withRollover - period.Used - period.Upcoming,
		MaxCarryOver:          period.MaxCarryOver,
		DaysInFirstHalf:       DaysInFirstHalf(records, period.Period.Start),
	}

	oct1 := time.Date(now.Year(), time.October, 1, 0, 0, 0, 0, now.Location())
	dec1 := time.Date(now.Year(), time.December, 1, 0, 0, 0, 0, now.Location())
	if now.Before(oct1) {
		d := model.Days(max(FirstHalfTarget-s.DaysInFirstHalf, 0))
		s.DaysToBookBeforeOct1 = &d
	}
	if timecalc.Within(now, model.DateInterval{Start: oct1, End: dec1}) {
		d := max(0, withRollover-period.Upcoming-period.Used-period.MaxCarryOver)
		s.DaysToBookBeforeDec1 = &d
	}
	return s
}

// DaysInFirstHalf sums weekday breakdown entries in the six months from
// start, half days counting 0.5.
func DaysInFirstHalf(records []model.TimeAway, start time.Time) float64 {
	half := model.DateInterval{Start: start, End: timecalc.AddMonths(start, FirstHalfMonths)}
	var total float64
	for _, r := range records {
		for _, b := range r.Breakdown {
			if timecalc.IsWeekend(b.Date) || !timecalc.Within(b.Date, half) {
				continue
			}
			total += b.Weight()
		}
	}
	return total
}
