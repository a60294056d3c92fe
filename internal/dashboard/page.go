package dashboard

import (
	"time"

	"github.com/Tiliavir/pto/internal/calendar"
	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/report"
	"github.com/Tiliavir/pto/internal/timecalc"
)

// Page is everything rendered for one person: summary table, calendar and
// charts.
type Page struct {
	Person      model.Person       `json:"person"`
	Summary     report.Summary     `json:"summary"`
	Calendar    calendar.Calendar  `json:"calendar"`
	Aggregation report.Aggregation `json:"aggregation"`
	Chart       report.ChartData   `json:"chart"`
}

// Compose derives the page of v for the business year containing now.
func Compose(v View, now time.Time) Page {
	year := timecalc.BusinessYearInterval(now)
	agg := report.Aggregate(v.TimeAway, v.Period, year)
	return Page{
		Person:      v.Person,
		Summary:     report.Summarize(v.Person, v.Period, v.TimeAway, now),
		Calendar:    calendar.Build(year.Start, v.TimeAway, now),
		Aggregation: agg,
		Chart:       report.Chart(agg, v.Period, now),
	}
}

// ViewOfBundle is the view of a single fetched bundle.
func ViewOfBundle(b model.PTOBundle) View {
	s := Apply(State{}, append(BundleActions(b), SelectPerson(b.Person.ID))...)
	v, ok := s.Selected()
	if !ok {
		// A bundle whose period belongs to someone else still renders.
		return View{Person: b.Person, Period: b.CurrentTimeAwayPeriod, TimeAway: b.PTOInCurrentPeriod}
	}
	return v
}
