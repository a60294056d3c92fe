package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/pto/internal/model"
)

// DefaultConcurrency bounds the number of report fetches in flight.
const DefaultConcurrency = 4

// Fetcher loads PTO bundles from upstream.
type Fetcher interface {
	PTOForMe(ctx context.Context) (model.PTOBundle, error)
	PTOForPerson(ctx context.Context, personID string) (model.PTOBundle, error)
}

// Loader fetches the token owner and their direct reports.
type Loader struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
}

// NewLoader creates a loader. A concurrency below 1 uses DefaultConcurrency.
func NewLoader(f Fetcher, concurrency int, logger *slog.Logger) *Loader {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fetcher: f, concurrency: concurrency, logger: logger}
}

// Team is the result of loading the token owner and their reports.
type Team struct {
	SelectedUserID string            `json:"selectedUserId"`
	People         []model.Person    `json:"people"`
	Bundles        []model.PTOBundle `json:"bundles"`
}

// LoadTeam fetches the owner's bundle, then every direct report concurrently.
// Either all bundles are returned or the first error is.
func (l *Loader) LoadTeam(ctx context.Context) (Team, error) {
	me, err := l.fetcher.PTOForMe(ctx)
	if err != nil {
		return Team{}, fmt.Errorf("loading own time off: %w", err)
	}

	reports := me.Person.DirectReports
	bundles := make([]model.PTOBundle, len(reports))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, id := range reports {
		g.Go(func() error {
			b, err := l.fetcher.PTOForPerson(gctx, id)
			if err != nil {
				return fmt.Errorf("loading time off for %s: %w", id, err)
			}
			bundles[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Team{}, err
	}
	l.logger.DebugContext(ctx, "team loaded", "person_id", me.Person.ID, "reports", len(reports))

	team := Team{
		SelectedUserID: me.Person.ID,
		Bundles:        append([]model.PTOBundle{me}, bundles...),
	}
	for _, b := range team.Bundles {
		team.People = append(team.People, b.Person)
	}
	return team, nil
}

// Apply commits every bundle of the team and selects the owner in a single
// transition.
func (t Team) Apply(s State) State {
	var actions []Action
	for _, b := range t.Bundles {
		actions = append(actions, BundleActions(b)...)
	}
	actions = append(actions, SelectPerson(t.SelectedUserID))
	return Apply(s, actions...)
}
