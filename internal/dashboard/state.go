// Package dashboard holds the in-memory view state of the dashboard and the
// loader that fills it for a whole team.
package dashboard

import (
	"slices"

	"github.com/Tiliavir/pto/internal/model"
)

// State is an immutable snapshot of everything loaded so far. Use Apply to
// derive a new snapshot; never mutate the slices of a State in place.
type State struct {
	People         []model.Person         `json:"people"`
	Periods        []model.TimeAwayPeriod `json:"periods"`
	TimeAway       []model.TimeAway       `json:"timeAway"`
	SelectedUserID string                 `json:"selectedUserId"`
}

// Action is a state transition.
type Action interface {
	apply(State) State
}

// AppendPeople upserts people by ID.
type AppendPeople []model.Person

// AppendPeriods upserts time-away periods by ID.
type AppendPeriods []model.TimeAwayPeriod

// AppendTimeAway upserts time-away records by ID.
type AppendTimeAway []model.TimeAway

// SelectPerson changes the selected person.
type SelectPerson string

func (a AppendPeople) apply(s State) State {
	s.People = upsert(s.People, a, func(p model.Person) string { return p.ID })
	return s
}

func (a AppendPeriods) apply(s State) State {
	s.Periods = upsert(s.Periods, a, func(p model.TimeAwayPeriod) string { return p.ID })
	return s
}

func (a AppendTimeAway) apply(s State) State {
	s.TimeAway = upsert(s.TimeAway, a, func(t model.TimeAway) string { return t.ID })
	return s
}

func (a SelectPerson) apply(s State) State {
	s.SelectedUserID = string(a)
	return s
}

// Apply returns the state after applying actions in order.
func Apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = a.apply(s)
	}
	return s
}

// upsert returns a new slice holding the items of existing whose ID is not in
// incoming, followed by incoming.
func upsert[T any](existing, incoming []T, id func(T) string) []T {
	replaced := make(map[string]struct{}, len(incoming))
	for _, item := range incoming {
		replaced[id(item)] = struct{}{}
	}
	out := make([]T, 0, len(existing)+len(incoming))
	for _, item := range existing {
		if _, ok := replaced[id(item)]; !ok {
			out = append(out, item)
		}
	}
	return append(out, incoming...)
}

// BundleActions converts a fetched bundle into the actions that record it.
func BundleActions(b model.PTOBundle) []Action {
	return []Action{
		AppendPeople{b.Person},
		AppendPeriods{b.CurrentTimeAwayPeriod},
		AppendTimeAway(slices.Clone(b.PTOInCurrentPeriod)),
	}
}

// View is the data shown for the selected person.
type View struct {
	Person   model.Person
	Period   model.TimeAwayPeriod
	TimeAway []model.TimeAway
}

// Selected returns the view of the selected person. It reports false until
// both the person and their period are loaded.
func (s State) Selected() (View, bool) {
	return s.ViewOf(s.SelectedUserID)
}

// ViewOf returns the view of the person with the given ID.
func (s State) ViewOf(personID string) (View, bool) {
	if personID == "" {
		return View{}, false
	}
	pi := slices.IndexFunc(s.People, func(p model.Person) bool { return p.ID == personID })
	ti := slices.IndexFunc(s.Periods, func(p model.TimeAwayPeriod) bool { return p.PersonID == personID })
	if pi < 0 || ti < 0 {
		return View{}, false
	}
	v := View{Person: s.People[pi], Period: s.Periods[ti], TimeAway: []model.TimeAway{}}
	for _, t := range s.TimeAway {
		if t.PersonID == personID {
			v.TimeAway = append(v.TimeAway, t)
		}
	}
	return v, true
}
