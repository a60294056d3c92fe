package model

import (
	"encoding/json"
	"math"
	"time"
)

// DateLayout is the plain-date format used by the Humaans API.
const DateLayout = "2006-01-02"

// Breakdown periods.
const (
	PeriodFull = "full"
	PeriodAM   = "am"
	PeriodPM   = "pm"
)

// Days is a day count taken from upstream. NaN marks a value that could not
// be parsed and encodes as JSON null.
type Days float64

// IsNaN reports whether d is not a number.
func (d Days) IsNaN() bool {
	return math.IsNaN(float64(d))
}

func (d Days) MarshalJSON() ([]byte, error) {
	if d.IsNaN() || math.IsInf(float64(d), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(d))
}

// DateInterval is a closed range of days: Start is the beginning of the first
// day and End the last instant of the last day.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

type dateIntervalJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (i DateInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateIntervalJSON{
		Start: i.Start.Format(DateLayout),
		End:   i.End.Format(DateLayout),
	})
}

// Person is an employee record.
type Person struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	DirectReports []string `json:"directReports"`
}

// TimeAwayBreakdown is a single day inside a time-away booking.
type TimeAwayBreakdown struct {
	Date   time.Time
	IsFull bool
	Period string
	Kind   string
}

type breakdownJSON struct {
	Date   string `json:"date"`
	IsFull bool   `json:"isFull"`
	Period string `json:"period"`
	Kind   string `json:"kind,omitempty"`
}

func (b TimeAwayBreakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(breakdownJSON{
		Date:   b.Date.Format(DateLayout),
		IsFull: b.IsFull,
		Period: b.Period,
		Kind:   b.Kind,
	})
}

// Weight is the day contribution of the entry: 1 for a full day, 0.5 otherwise.
func (b TimeAwayBreakdown) Weight() float64 {
	if b.IsFull {
		return 1
	}
	return 0.5
}

// TimeAway is one continuous leave booking.
type TimeAway struct {
	ID        string              `json:"id"`
	PersonID  string              `json:"personId"`
	Days      Days                `json:"days"`
	Type      string              `json:"type"`
	Period    DateInterval        `json:"period"`
	Breakdown []TimeAwayBreakdown `json:"breakdown"`
}

// TimeAwayPeriod is a person's annual entitlement window.
type TimeAwayPeriod struct {
	ID           string       `json:"id"`
	PersonID     string       `json:"personId"`
	Period       DateInterval `json:"period"`
	Allowance    Days         `json:"allowance"`
	Used         Days         `json:"used"`
	Upcoming     Days         `json:"upcoming"`
	CarriedOver  Days         `json:"carriedOver"`
	MaxCarryOver Days         `json:"maxCarryOver"`
}

// PTOBundle is everything needed to render one person's dashboard.
type PTOBundle struct {
	Person                Person         `json:"person"`
	CurrentTimeAwayPeriod TimeAwayPeriod `json:"currentTimeAwayPeriod"`
	PTOInCurrentPeriod    []TimeAway     `json:"ptoInCurrentPeriod"`
}
