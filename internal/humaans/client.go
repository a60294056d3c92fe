package humaans

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/Tiliavir/pto/internal/model"
	"github.com/Tiliavir/pto/internal/timecalc"
)

// DefaultBaseURL is the public Humaans API root.
const DefaultBaseURL = "https://app.humaans.io/api"

// TypePTO is the time-away type for paid time off.
const TypePTO = "pto"

// Client is an authenticated Humaans API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client that sends token as a bearer token on every
// request.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: oauth2.NewClient(ctx, ts),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetResource fetches path relative to the API root and returns the decoded
// JSON object.
func (c *Client) GetResource(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("humaans API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	c.logger.DebugContext(ctx, "humaans request",
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Status: resp.StatusCode, URL: c.baseURL + "/" + path}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrMalformedResponse, path, err)
	}
	return out, nil
}

// Me returns the person owning the API token.
func (c *Client) Me(ctx context.Context) (model.Person, error) {
	raw, err := c.GetResource(ctx, "me", nil)
	if err != nil {
		return model.Person{}, fmt.Errorf("fetching me: %w", err)
	}
	return ParsePerson(raw), nil
}

// Person returns a single person by ID.
func (c *Client) Person(ctx context.Context, id string) (model.Person, error) {
	if id == "" {
		return model.Person{}, ErrMissingPersonID
	}
	raw, err := c.GetResource(ctx, "people/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Person{}, fmt.Errorf("fetching person %s: %w", id, err)
	}
	return ParsePerson(raw), nil
}

// TimeAway lists a person's time-away records of the given type that lie
// inside interval. An empty type lists all types.
func (c *Client) TimeAway(ctx context.Context, personID, typ string, interval model.DateInterval) ([]model.TimeAway, error) {
	if personID == "" {
		return nil, ErrMissingPersonID
	}
	q := url.Values{}
	q.Set("personId", personID)
	if typ != "" {
		q.Set("type", typ)
	}
	q.Set("startDate[$gte]", timecalc.FormatDate(interval.Start))
	q.Set("endDate[$lte]", timecalc.FormatDate(interval.End))

	raw, err := c.GetResource(ctx, "time-away", q)
	if err != nil {
		return nil, fmt.Errorf("fetching time away for %s: %w", personID, err)
	}
	items, err := dataList(raw)
	if err != nil {
		return nil, fmt.Errorf("time away for %s: %w", personID, err)
	}
	out := make([]model.TimeAway, 0, len(items))
	for _, item := range items {
		ta, err := ParseTimeAway(item)
		if err != nil {
			return nil, fmt.Errorf("time away for %s: %w", personID, err)
		}
		out = append(out, ta)
	}
	return out, nil
}

// CurrentTimeAwayPeriod returns the person's entitlement for the current
// period.
func (c *Client) CurrentTimeAwayPeriod(ctx context.Context, personID string) (model.TimeAwayPeriod, error) {
	if personID == "" {
		return model.TimeAwayPeriod{}, ErrMissingPersonID
	}
	q := url.Values{}
	q.Set("personId", personID)
	q.Set("isCurrentPeriod", "true")

	raw, err := c.GetResource(ctx, "time-away-periods", q)
	if err != nil {
		return model.TimeAwayPeriod{}, fmt.Errorf("fetching time away period for %s: %w", personID, err)
	}
	items, err := dataList(raw)
	if err != nil {
		return model.TimeAwayPeriod{}, fmt.Errorf("time away period for %s: %w", personID, err)
	}
	if len(items) == 0 {
		return model.TimeAwayPeriod{}, malformed("no current time away period for %s", personID)
	}
	return ParseTimeAwayPeriod(items[0])
}

// PTOForPerson gathers the person, their current period and the PTO booked
// inside it.
func (c *Client) PTOForPerson(ctx context.Context, personID string) (model.PTOBundle, error) {
	person, err := c.Person(ctx, personID)
	if err != nil {
		return model.PTOBundle{}, err
	}
	return c.bundle(ctx, person, personID)
}

// PTOForMe is PTOForPerson for the token owner.
func (c *Client) PTOForMe(ctx context.Context) (model.PTOBundle, error) {
	person, err := c.Me(ctx)
	if err != nil {
		return model.PTOBundle{}, err
	}
	return c.bundle(ctx, person, person.ID)
}

func (c *Client) bundle(ctx context.Context, person model.Person, personID string) (model.PTOBundle, error) {
	period, err := c.CurrentTimeAwayPeriod(ctx, person.ID)
	if err != nil {
		return model.PTOBundle{}, err
	}
	timeAway, err := c.TimeAway(ctx, personID, TypePTO, period.Period)
	if err != nil {
		return model.PTOBundle{}, err
	}
	return model.PTOBundle{
		Person:                person,
		CurrentTimeAwayPeriod: period,
		PTOInCurrentPeriod:    timeAway,
	}, nil
}

func dataList(raw map[string]any) ([]map[string]any, error) {
	data, ok := raw["data"].([]any)
	if !ok {
		return nil, malformed("response has no data list")
	}
	out := make([]map[string]any, 0, len(data))
	for _, d := range data {
		obj, ok := d.(map[string]any)
		if !ok {
			return nil, malformed("data entry is not an object")
		}
		out = append(out, obj)
	}
	return out, nil
}
