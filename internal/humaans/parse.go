package humaans

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

// ParsePerson converts a raw person object. Missing names and IDs become
// empty strings; the name is never trimmed.
func ParsePerson(raw map[string]any) model.Person {
	p := model.Person{
		ID:            str(raw["id"]),
		Name:          str(raw["firstName"]) + " " + str(raw["lastName"]),
		DirectReports: []string{},
	}
	if reports, ok := raw["directReports"].([]any); ok {
		for _, r := range reports {
			if id := str(r); id != "" {
				p.DirectReports = append(p.DirectReports, id)
			}
		}
	}
	return p
}

// ParseTimeAwayBreakdown converts one breakdown day. IsFull is derived from
// the period, whatever upstream says.
func ParseTimeAwayBreakdown(raw map[string]any) (model.TimeAwayBreakdown, error) {
	d, err := timecalc.ParseDate(str(raw["date"]))
	if err != nil {
		return model.TimeAwayBreakdown{}, malformed("breakdown date: %v", err)
	}
	period := str(raw["period"])
	return model.TimeAwayBreakdown{
		Date:   d,
		IsFull: period == model.PeriodFull,
		Period: period,
		Kind:   str(raw["kind"]),
	}, nil
}

// ParseTimeAway converts a raw time-away record. The period is widened to
// whole days and the breakdown is required.
func ParseTimeAway(raw map[string]any) (model.TimeAway, error) {
	period, err := parseInterval(raw)
	if err != nil {
		return model.TimeAway{}, err
	}
	rawBreakdown, ok := raw["breakdown"].([]any)
	if !ok {
		return model.TimeAway{}, malformed("time away %q has no breakdown", str(raw["id"]))
	}
	breakdown := make([]model.TimeAwayBreakdown, 0, len(rawBreakdown))
	for _, item := range rawBreakdown {
		obj, ok := item.(map[string]any)
		if !ok {
			return model.TimeAway{}, malformed("time away %q has a non-object breakdown entry", str(raw["id"]))
		}
		b, err := ParseTimeAwayBreakdown(obj)
		if err != nil {
			return model.TimeAway{}, err
		}
		breakdown = append(breakdown, b)
	}
	return model.TimeAway{
		ID:        str(raw["id"]),
		PersonID:  str(raw["personId"]),
		Days:      number(raw["days"]),
		Type:      str(raw["type"]),
		Period:    period,
		Breakdown: breakdown,
	}, nil
}

// ParseTimeAwayPeriod converts a raw time-away period. Numeric fields accept
// numbers or numeric strings; anything else becomes NaN.
func ParseTimeAwayPeriod(raw map[string]any) (model.TimeAwayPeriod, error) {
	period, err := parseInterval(raw)
	if err != nil {
		return model.TimeAwayPeriod{}, err
	}
	return model.TimeAwayPeriod{
		ID:           str(raw["id"]),
		PersonID:     str(raw["personId"]),
		Period:       period,
		Allowance:    number(raw["allowance"]),
		Used:         number(firstPresent(raw, "used", "ptoUsed")),
		Upcoming:     number(firstPresent(raw, "upcoming", "ptoUpcoming")),
		CarriedOver:  number(raw["carriedOver"]),
		MaxCarryOver: number(raw["maxCarryOver"]),
	}, nil
}

func parseInterval(raw map[string]any) (model.DateInterval, error) {
	start, err := timecalc.ParseDate(str(raw["startDate"]))
	if err != nil {
		return model.DateInterval{}, malformed("startDate: %v", err)
	}
	end, err := timecalc.ParseDate(str(raw["endDate"]))
	if err != nil {
		return model.DateInterval{}, malformed("endDate: %v", err)
	}
	return model.DateInterval{
		Start: timecalc.StartOfDay(start),
		End:   timecalc.EndOfDay(end),
	}, nil
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func number(v any) model.Days {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return model.Days(math.NaN())
		}
		return model.Days(f)
	case float64:
		return model.Days(n)
	case int:
		return model.Days(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return model.Days(math.NaN())
		}
		return model.Days(f)
	default:
		return model.Days(math.NaN())
	}
}
