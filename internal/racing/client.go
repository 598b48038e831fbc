package racing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bcdxn/nexttogo/internal/domain"
)

const (
	// DefaultBaseURL is the public racing API serving next-to-go races.
	DefaultBaseURL = "https://api.neds.com.au"
	// DefaultCount is the number of races requested; the API applies it per category.
	DefaultCount = 10
)

// New returns a new racing API Client.
func New(opts ...ClientOption) Client {
	// create a default instance of the client
	c := Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		httpBaseURL: DefaultBaseURL,
		count:       DefaultCount,
		logger:      slog.Default(),
	}
	// apply given options
	for _, opt := range opts {
		opt(&c)
	}
	// return new instance of the client
	return c
}

type Client struct {
	httpClient *http.Client
	// Racing API Configuration
	httpBaseURL string
	count       int
	// logger
	logger *slog.Logger
}

/* Client Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type ClientOption = func(c *Client)

// WithHTTPBaseURL configures the HTTP(S) URL of the racing API; primarily used for testing.
func WithHTTPBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.httpBaseURL = baseURL }
}

// WithHTTPClient configures the HTTP client used to call the racing API.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithCount configures how many races are requested from the racing API.
func WithCount(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.count = n
		}
	}
}

// WithLogger configures the logger to use within the client.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

/* Client API
------------------------------------------------------------------------------------------------- */

// NextRaces fetches the upcoming races from the racing API. Races listed under a category that is
// not a known domain.RaceCategory are left out of the result.
func (c Client) NextRaces(ctx context.Context) ([]domain.Race, error) {
	req, err := c.nextRacesRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending next races request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching next races: %w", errors.New(resp.Status))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading next races response: %w", err)
	}
	nr, err := decodeNextRaces(b)
	if err != nil {
		return nil, fmt.Errorf("error parsing next races response: %w", err)
	}
	if err := nr.err(); err != nil {
		return nil, fmt.Errorf("error fetching next races: %w", err)
	}

	races := c.toDomain(nr.Data)
	c.logger.Debug("fetched next races", "received", len(nr.Data.RaceSummaries), "kept", len(races))
	return races, nil
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// nextRacesRequest creates the HTTP request for the nextraces method of the racing API.
func (c Client) nextRacesRequest(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(c.httpBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTPBaseURL: %w", err)
	}

	// keep any path the base URL is mounted under, e.g. behind a proxy
	u = &url.URL{
		Scheme: u.Scheme,
		Host:   u.Host,
		Path:   strings.TrimSuffix(u.Path, "/") + "/rest/v1/racing/",
		RawQuery: url.Values{
			"method": {"nextraces"},
			"count":  {strconv.Itoa(c.count)},
		}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating next races request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// toDomain maps the API's race summaries to domain races in next-to-go order. Summaries that are
// not referenced by next_to_go_ids are appended after the ordered ones.
func (c Client) toDomain(data nextRacesData) []domain.Race {
	races := make([]domain.Race, 0, len(data.RaceSummaries))
	added := make(map[string]bool, len(data.RaceSummaries))
	unknown := 0

	add := func(id string, s raceSummary) {
		if added[id] {
			return
		}
		added[id] = true
		category, ok := domain.CategoryFromExternalID(s.CategoryID)
		if !ok {
			unknown++
			return
		}
		if s.RaceID == "" {
			s.RaceID = id
		}
		races = append(races, domain.Race{
			ID:              s.RaceID,
			Name:            s.RaceName,
			Number:          s.RaceNumber,
			MeetingID:       s.MeetingID,
			MeetingName:     s.MeetingName,
			Venue:           s.venue(),
			Category:        category,
			AdvertisedStart: s.AdvertisedStart.Time(),
		})
	}

	for _, id := range data.NextToGoIDs {
		if s, ok := data.RaceSummaries[id]; ok {
			add(id, s)
		}
	}
	// map iteration order is random; sort the leftovers by start so output is stable
	rest := make([]string, 0)
	for id := range data.RaceSummaries {
		if !added[id] {
			rest = append(rest, id)
		}
	}
	sortByStart(rest, data.RaceSummaries)
	for _, id := range rest {
		add(id, data.RaceSummaries[id])
	}

	if unknown > 0 {
		c.logger.Debug("skipped races in unsupported categories", "count", unknown)
	}
	return races
}
