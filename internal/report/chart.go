package report

import (
	"time"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

// RecommendedPerQuarter is the suggested minimum number of days off per quarter.
const RecommendedPerQuarter = 5

// Point is one chart coordinate.
type Point struct {
	X int        `json:"x"`
	Y model.Days `json:"y"`
}

// QuarterBar is one bar of the quarterly chart.
type QuarterBar struct {
	Quarter int    `json:"quarter"`
	Label   string `json:"label"`
	Days    int    `json:"days"`
}

// ChartData feeds the quarterly bar chart and the cumulative monthly line.
type ChartData struct {
	Quarterly             []QuarterBar `json:"quarterly"`
	RecommendedPerQuarter int          `json:"recommendedPerQuarter"`

	// Monthly is the running total at the end of each month, x = 1..12.
	Monthly     []Point    `json:"monthly"`
	MonthLabels []string   `json:"monthLabels"`
	Minimum     model.Days `json:"minimumHoliday"`
	Allowed     model.Days `json:"allowedHoliday"`
	// Pace runs from nothing taken to MinimumHoliday at year end.
	Pace         []Point `json:"pace"`
	CurrentMonth int     `json:"currentMonth"`
}

// Chart builds the chart series for agg as seen at now.
func Chart(agg Aggregation, period model.TimeAwayPeriod, now time.Time) ChartData {
	c := ChartData{
		Quarterly:             make([]QuarterBar, 0, Quarters),
		RecommendedPerQuarter: RecommendedPerQuarter,
		Monthly:               make([]Point, 0, Months),
		MonthLabels:           make([]string, 0, Months),
		Minimum:               agg.MinimumHoliday,
		Allowed:               agg.AllowedHoliday,
		Pace:                  []Point{{X: 0, Y: 0}, {X: Months, Y: agg.MinimumHoliday}},
		CurrentMonth:          1 + timecalc.MonthsBetween(now, period.Period.Start),
	}
	for q, days := range agg.Quarterly {
		c.Quarterly = append(c.Quarterly, QuarterBar{
			Quarter: q + 1,
			Label:   "Q" + string(rune('1'+q)),
			Days:    days,
		})
	}
	for i, total := range agg.Cumulative {
		c.Monthly = append(c.Monthly, Point{X: i + 1, Y: model.Days(total)})
		month := timecalc.AddMonths(period.Period.Start, i).Month()
		c.MonthLabels = append(c.MonthLabels, month.String()[:1])
	}
	return c
}
