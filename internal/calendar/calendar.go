// Package calendar lays a year of time-away records out as twelve month rows
// padded to whole Monday-start weeks, ready for grid rendering.
package calendar

import (
	"encoding/json"
	"slices"
	"strconv"
	"time"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

// MonthsPerYear is the number of month rows in a calendar.
const MonthsPerYear = 12

// VisibleTypes are the time-away types drawn on the calendar.
var VisibleTypes = []string{"pto", "away"}

// Calendar is a business year of months sharing one grid width.
type Calendar struct {
	Months []Month `json:"months"`
	// MaxDisplayDays is the widest month's DisplayDays. Every grid has
	// MaxDisplayDays+1 cells.
	MaxDisplayDays int `json:"maxDisplayDays"`
}

// Month is one row of the calendar.
type Month struct {
	Title        string             `json:"title"`
	Period       model.DateInterval `json:"period"`
	Display      model.DateInterval `json:"display"`
	Days         int                `json:"days"`
	DisplayDays  int                `json:"displayDays"`
	PadStart     int                `json:"padStart"`
	PadEnd       int                `json:"padEnd"`
	TimeAwayData []model.TimeAway   `json:"timeAwayData"`
	Highlights   []Highlight        `json:"highlights"`
	Cells        []Cell             `json:"cells"`
}

// Highlight is the part of a record visible inside one month.
type Highlight struct {
	TimeAwayID string             `json:"timeAwayId"`
	Visible    model.DateInterval `json:"visible"`
	// IsStart is set when the record begins in this month, IsEnd when it
	// ends in it.
	IsStart bool `json:"isStart"`
	IsEnd   bool `json:"isEnd"`
	// Day is the day of month the visible part starts on, Length the number
	// of days after it.
	Day         int    `json:"day"`
	Length      int    `json:"length"`
	ColumnStart int    `json:"columnStart"`
	ColumnEnd   int    `json:"columnEnd"`
	Label       string `json:"label"`
}

// Cell is one day of a month's grid.
type Cell struct {
	Date      time.Time
	IsPad     bool
	IsWeekend bool
	IsToday   bool
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date      string `json:"date"`
		IsPad     bool   `json:"isPad"`
		IsWeekend bool   `json:"isWeekend"`
		IsToday   bool   `json:"isToday"`
	}{timecalc.FormatDate(c.Date), c.IsPad, c.IsWeekend, c.IsToday})
}

// Build lays out the twelve months starting at yearStart.
func Build(yearStart time.Time, records []model.TimeAway, today time.Time) Calendar {
	cal := Calendar{Months: make([]Month, 0, MonthsPerYear)}
	for i := range MonthsPerYear {
		m := newMonth(timecalc.AddMonths(yearStart, i), records)
		cal.MaxDisplayDays = max(cal.MaxDisplayDays, m.DisplayDays)
		cal.Months = append(cal.Months, m)
	}
	for i := range cal.Months {
		cal.Months[i].Cells = cells(cal.Months[i], cal.MaxDisplayDays, today)
	}
	return cal
}

func newMonth(t time.Time, records []model.TimeAway) Month {
	start := timecalc.StartOfMonth(t)
	end := timecalc.EndOfMonth(start)
	displayStart := timecalc.StartOfWeek(start)
	displayEnd := timecalc.EndOfWeek(end)

	m := Month{
		Title:        start.Format("Jan 2006"),
		Period:       model.DateInterval{Start: start, End: end},
		Display:      model.DateInterval{Start: displayStart, End: displayEnd},
		Days:         end.Day(),
		DisplayDays:  timecalc.DaysBetween(displayStart, displayEnd),
		PadStart:     timecalc.DaysBetween(displayStart, start),
		PadEnd:       timecalc.DaysBetween(end, displayEnd),
		TimeAwayData: []model.TimeAway{},
		Highlights:   []Highlight{},
	}
	for _, r := range records {
		if !slices.Contains(VisibleTypes, r.Type) || !timecalc.Overlaps(m.Period, r.Period) {
			continue
		}
		m.TimeAwayData = append(m.TimeAwayData, r)
		m.Highlights = append(m.Highlights, highlight(m, r))
	}
	return m
}

func highlight(m Month, r model.TimeAway) Highlight {
	visStart := timecalc.MaxTime(m.Period.Start, r.Period.Start)
	visEnd := timecalc.MinTime(m.Period.End, r.Period.End)
	day := visStart.Day()
	length := timecalc.DaysBetween(visStart, visEnd)
	return Highlight{
		TimeAwayID:  r.ID,
		Visible:     model.DateInterval{Start: visStart, End: visEnd},
		IsStart:     !m.Period.Start.After(r.Period.Start),
		IsEnd:       !r.Period.End.After(m.Period.End),
		Day:         day,
		Length:      length,
		ColumnStart: day + m.PadStart,
		ColumnEnd:   day + length + m.PadStart + 1,
		Label:       Label(r.Days),
	}
}

func cells(m Month, maxDisplayDays int, today time.Time) []Cell {
	out := make([]Cell, 0, maxDisplayDays+1)
	for i := 0; i <= maxDisplayDays; i++ {
		d := m.Display.Start.AddDate(0, 0, i)
		out = append(out, Cell{
			Date:      d,
			IsPad:     !timecalc.Within(d, m.Period),
			IsWeekend: timecalc.IsWeekend(d),
			IsToday:   timecalc.SameDay(d, today),
		})
	}
	return out
}

// Label renders a day count as "1 day" or "3 days". Unknown counts render
// empty.
func Label(days model.Days) string {
	if days.IsNaN() {
		return ""
	}
	n := strconv.FormatFloat(float64(days), 'f', -1, 64)
	if days > 1 {
		return n + " days"
	}
	return n + " day"
}
