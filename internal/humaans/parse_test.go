package humaans_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Tiliavir/pto/internal/humaans"
	"github.com/Tiliavir/pto/internal/model"
)

func rawJSON(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestParsePerson(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantID  string
		reports int
	}{
		{"first name only", `{"firstName":"Ada"}`, "Ada ", "", 0},
		{"empty", `{}`, " ", "", 0},
		{"full", `{"id":"p1","firstName":"Ada","lastName":"Lovelace","directReports":["p2","p3"]}`, "Ada Lovelace", "p1", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := humaans.ParsePerson(rawJSON(t, tt.raw))
			if p.Name != tt.want {
				t.Errorf("Name = %q, want %q", p.Name, tt.want)
			}
			if p.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", p.ID, tt.wantID)
			}
			if p.DirectReports == nil || len(p.DirectReports) != tt.reports {
				t.Errorf("DirectReports = %v, want %d entries", p.DirectReports, tt.reports)
			}
		})
	}
}

func TestParseTimeAwayBreakdown(t *testing.T) {
	tests := []struct {
		raw    string
		isFull bool
	}{
		{`{"date":"2024-07-29","period":"full","isFull":false}`, true},
		{`{"date":"2024-07-29","period":"am","isFull":true}`, false},
		{`{"date":"2024-07-29","period":"pm"}`, false},
	}
	for _, tt := range tests {
		b, err := humaans.ParseTimeAwayBreakdown(rawJSON(t, tt.raw))
		if err != nil {
			t.Fatalf("ParseTimeAwayBreakdown(%s): %v", tt.raw, err)
		}
		if b.IsFull != tt.isFull {
			t.Errorf("ParseTimeAwayBreakdown(%s).IsFull = %v, want %v", tt.raw, b.IsFull, tt.isFull)
		}
		if !b.Date.Equal(time.Date(2024, 7, 29, 0, 0, 0, 0, time.Local)) {
			t.Errorf("Date = %v", b.Date)
		}
	}

	if _, err := humaans.ParseTimeAwayBreakdown(rawJSON(t, `{"date":"29/07/2024","period":"full"}`)); !errors.Is(err, humaans.ErrMalformedResponse) {
		t.Errorf("bad date: err = %v, want ErrMalformedResponse", err)
	}
}

func TestParseTimeAway(t *testing.T) {
	raw := rawJSON(t, `{
		"id":"ta1","personId":"p1","type":"pto","days":5,
		"startDate":"2024-07-29","endDate":"2024-08-02",
		"breakdown":[
			{"date":"2024-07-29","period":"full","kind":"weekday"},
			{"date":"2024-07-30","period":"am"}
		]
	}`)
	ta, err := humaans.ParseTimeAway(raw)
	if err != nil {
		t.Fatalf("ParseTimeAway: %v", err)
	}
	if ta.ID != "ta1" || ta.PersonID != "p1" || ta.Type != "pto" {
		t.Errorf("ids/type = %q %q %q", ta.ID, ta.PersonID, ta.Type)
	}
	if ta.Days != 5 {
		t.Errorf("Days = %v, want 5", ta.Days)
	}
	if !ta.Period.Start.Equal(time.Date(2024, 7, 29, 0, 0, 0, 0, time.Local)) {
		t.Errorf("Period.Start = %v", ta.Period.Start)
	}
	if !ta.Period.End.Equal(time.Date(2024, 8, 2, 23, 59, 59, 0, time.Local)) {
		t.Errorf("Period.End = %v", ta.Period.End)
	}
	if len(ta.Breakdown) != 2 || ta.Breakdown[0].Kind != "weekday" || ta.Breakdown[1].IsFull {
		t.Errorf("Breakdown = %+v", ta.Breakdown)
	}
}

func TestParseTimeAwayMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing breakdown", `{"id":"x","startDate":"2024-07-29","endDate":"2024-07-29"}`},
		{"breakdown not a list", `{"id":"x","startDate":"2024-07-29","endDate":"2024-07-29","breakdown":{}}`},
		{"bad start", `{"startDate":"soon","endDate":"2024-07-29","breakdown":[]}`},
		{"missing end", `{"startDate":"2024-07-29","breakdown":[]}`},
		{"bad breakdown date", `{"startDate":"2024-07-29","endDate":"2024-07-29","breakdown":[{"date":"","period":"full"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := humaans.ParseTimeAway(rawJSON(t, tt.raw))
			if !errors.Is(err, humaans.ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}

	ta, err := humaans.ParseTimeAway(rawJSON(t, `{"startDate":"2024-07-29","endDate":"2024-07-29","breakdown":[]}`))
	if err != nil {
		t.Fatalf("empty breakdown: %v", err)
	}
	if len(ta.Breakdown) != 0 {
		t.Errorf("Breakdown = %v, want empty", ta.Breakdown)
	}
	if !ta.Days.IsNaN() {
		t.Errorf("missing days = %v, want NaN", ta.Days)
	}
}

func TestParseTimeAwayPeriod(t *testing.T) {
	raw := rawJSON(t, `{
		"id":"tap1","personId":"p1","startDate":"2024-04-01","endDate":"2025-03-31",
		"allowance":"25","ptoUsed":4.5,"ptoUpcoming":"2","carriedOver":3,"maxCarryOver":"5"
	}`)
	p, err := humaans.ParseTimeAwayPeriod(raw)
	if err != nil {
		t.Fatalf("ParseTimeAwayPeriod: %v", err)
	}
	checks := []struct {
		name string
		got  model.Days
		want model.Days
	}{
		{"allowance", p.Allowance, 25},
		{"used", p.Used, 4.5},
		{"upcoming", p.Upcoming, 2},
		{"carriedOver", p.CarriedOver, 3},
		{"maxCarryOver", p.MaxCarryOver, 5},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if !p.Period.End.Equal(time.Date(2025, 3, 31, 23, 59, 59, 0, time.Local)) {
		t.Errorf("Period.End = %v", p.Period.End)
	}
}

func TestParseTimeAwayPeriodNaN(t *testing.T) {
	raw := rawJSON(t, `{"startDate":"2024-04-01","endDate":"2025-03-31","allowance":"lots","used":1}`)
	p, err := humaans.ParseTimeAwayPeriod(raw)
	if err != nil {
		t.Fatalf("ParseTimeAwayPeriod: %v", err)
	}
	if !p.Allowance.IsNaN() {
		t.Errorf("Allowance = %v, want NaN", p.Allowance)
	}
	if !p.Upcoming.IsNaN() || !p.CarriedOver.IsNaN() {
		t.Errorf("absent fields should be NaN: upcoming=%v carriedOver=%v", p.Upcoming, p.CarriedOver)
	}
	if p.Used != 1 {
		t.Errorf("Used = %v, want 1", p.Used)
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v, ok := back["allowance"]; !ok || v != nil {
		t.Errorf("allowance JSON = %v, want null", v)
	}
}
