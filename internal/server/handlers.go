package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/Tiliavir/pto/internal/dashboard"
	"github.com/Tiliavir/pto/internal/humaans"
	"github.com/Tiliavir/pto/internal/logging"
	"github.com/Tiliavir/pto/internal/model"
)

var templateFuncs = map[string]any{
	"days": formatDays,
}

// formatDays renders a day count; unknown counts render empty.
func formatDays(d model.Days) string {
	if d.IsNaN() || math.IsInf(float64(d), 0) {
		return ""
	}
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", struct{ Title string }{"Time off"})
}

func (s *Server) handlePTOMe(w http.ResponseWriter, r *http.Request) {
	f, err := s.fetcher(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := f.PTOForMe(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, b)
}

func (s *Server) handlePTOPerson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("personId")
	f, err := s.fetcher(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := f.PTOForPerson(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, b)
}

func (s *Server) handleMissingPerson(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, humaans.ErrMissingPersonID)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.loadTeam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, team)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	f, err := s.fetcher(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var b model.PTOBundle
	if id := r.PathValue("personId"); id == "me" {
		b, err = f.PTOForMe(r.Context())
	} else {
		b, err = f.PTOForPerson(r.Context(), id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, dashboard.Compose(dashboard.ViewOfBundle(b), s.now()))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	team, err := s.loadTeam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	state := team.Apply(dashboard.State{})
	if id := r.URL.Query().Get("person"); id != "" {
		state = dashboard.Apply(state, dashboard.SelectPerson(id))
	}
	view, ok := state.Selected()
	if !ok {
		view = dashboard.ViewOfBundle(team.Bundles[0])
	}

	page := dashboard.Compose(view, s.now())
	s.render(w, r, "dashboard.html", newDashboardPage(r.URL.Query().Get("key"), state.People, view.Person.ID, page))
}

func (s *Server) loadTeam(r *http.Request) (dashboard.Team, error) {
	f, err := s.fetcher(r)
	if err != nil {
		return dashboard.Team{}, err
	}
	return dashboard.NewLoader(f, s.concurrency, logging.FromContext(r.Context())).LoadTeam(r.Context())
}

// fail logs err and answers 500, whatever went wrong.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", logging.FieldError, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Template render failed", "template", name, logging.FieldError, err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "Encoding response failed", logging.FieldError, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

type bar struct {
	Label   string
	Value   string
	Height  float64
	Current bool
}

type dashboardPage struct {
	Title      string
	Key        string
	People     []model.Person
	SelectedID string
	Page       dashboard.Page
	Columns    int

	QuarterBars       []bar
	RecommendedHeight float64
	MonthBars         []bar
	MinimumHeight     float64
	AllowedHeight     float64
}

func newDashboardPage(key string, people []model.Person, selected string, page dashboard.Page) dashboardPage {
	d := dashboardPage{
		Title:      "Time off: " + page.Person.Name,
		Key:        key,
		People:     people,
		SelectedID: selected,
		Page:       page,
		Columns:    page.Calendar.MaxDisplayDays + 1,
	}

	qMax := float64(page.Chart.RecommendedPerQuarter)
	for _, q := range page.Chart.Quarterly {
		qMax = max(qMax, float64(q.Days))
	}
	for _, q := range page.Chart.Quarterly {
		d.QuarterBars = append(d.QuarterBars, bar{Label: q.Label, Value: strconv.Itoa(q.Days), Height: percent(float64(q.Days), qMax)})
	}
	d.RecommendedHeight = percent(float64(page.Chart.RecommendedPerQuarter), qMax)

	mMax := 1.0
	for _, v := range []model.Days{page.Chart.Allowed, page.Chart.Minimum} {
		if !v.IsNaN() {
			mMax = max(mMax, float64(v))
		}
	}
	for _, p := range page.Chart.Monthly {
		mMax = max(mMax, float64(p.Y))
	}
	for i, p := range page.Chart.Monthly {
		d.MonthBars = append(d.MonthBars, bar{
			Label:   page.Chart.MonthLabels[i],
			Value:   formatDays(p.Y),
			Height:  percent(float64(p.Y), mMax),
			Current: p.X == page.Chart.CurrentMonth,
		})
	}
	d.MinimumHeight = percent(float64(page.Chart.Minimum), mMax)
	d.AllowedHeight = percent(float64(page.Chart.Allowed), mMax)
	return d
}

// percent returns v as a share of total in 0..100. NaN and non-positive
// totals yield 0.
func percent(v, total float64) float64 {
	if total <= 0 || math.IsNaN(v) || math.IsNaN(total) {
		return 0
	}
	return math.Round(min(max(v/total*100, 0), 100)*10) / 10
}
