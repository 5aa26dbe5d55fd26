package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jawellis/internship-finder/internal/log"
)

const (
	// searchPath is the provider's active-internships endpoint.
	searchPath = "/active-jb-7d"

	requestTimeout  = 30 * time.Second
	maxResponseSize = 10 * 1024 * 1024 // 10MB
)

// ClientConfig configures the search client.
type ClientConfig struct {
	APIKey  string
	BaseURL string // e.g. https://internships-api.p.rapidapi.com
	Logger  log.Logger

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client calls the external internships API.
type Client struct {
	apiKey  string
	baseURL string
	host    string
	http    *http.Client
	logger  log.Logger
}

// NewClient creates a search client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		host:    u.Host,
		http:    httpClient,
		logger:  cfg.Logger,
	}, nil
}

// Fetch searches internships for the given field and location.
//
// All failures are absorbed: on a provider or transport error the result
// carries FetchErrorDisplay, on zero matches NoResultsDisplay. The record
// list is empty in both cases — placeholder internships are never synthesized.
func (c *Client) Fetch(ctx context.Context, field, location string) Result {
	c.logger.Info("fetching internships", "field", field, "location", location)

	records, err := c.search(ctx, field, location)
	if err != nil {
		c.logger.Error("internship search failed", "error", err, "field", field, "location", location)
		return Result{Display: FetchErrorDisplay}
	}
	if len(records) == 0 {
		return Result{Display: NoResultsDisplay}
	}

	return Result{
		Internships: records,
		Display:     Digest(field, location, records),
	}
}

// providerJob mirrors the provider's job object shape.
type providerJob struct {
	Title            string   `json:"title"`
	Organization     string   `json:"organization"`
	Location         string   `json:"location"`
	CitiesDerived    []string `json:"cities_derived"`
	AISalaryMinValue float64  `json:"ai_salary_minvalue"`
	AISalaryUnitText string   `json:"ai_salary_unittext"`
	DescriptionText  string   `json:"description_text"`
	URL              string   `json:"url"`
}

// search performs the provider request and normalizes the response.
func (c *Client) search(ctx context.Context, field, location string) ([]Internship, error) {
	q := url.Values{}
	q.Set("title_filter", field)
	q.Set("location_filter", location)
	q.Set("limit", strconv.Itoa(maxResults))
	q.Set("description_type", "text")
	q.Set("include_ai", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling search provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search provider returned status %d", resp.StatusCode)
	}

	jobs, err := decodeJobs(body)
	if err != nil {
		return nil, err
	}
	if len(jobs) > maxResults {
		jobs = jobs[:maxResults]
	}

	records := make([]Internship, 0, len(jobs))
	for _, j := range jobs {
		records = append(records, normalize(j))
	}
	return records, nil
}

// decodeJobs accepts both response shapes the provider emits: an object
// wrapping a "jobs" array, or a bare array.
func decodeJobs(body []byte) ([]providerJob, error) {
	var wrapped struct {
		Jobs []providerJob `json:"jobs"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Jobs != nil {
		return wrapped.Jobs, nil
	}

	var bare []providerJob
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return bare, nil
}

// normalize maps a provider job to an Internship, resolving the location from
// the derived-cities list when the primary field is absent.
func normalize(j providerJob) Internship {
	location := j.Location
	if location == "" && len(j.CitiesDerived) > 0 {
		location = j.CitiesDerived[0]
	}
	return Internship{
		Title:        j.Title,
		Organization: j.Organization,
		Location:     location,
		SalaryMin:    j.AISalaryMinValue,
		SalaryUnit:   j.AISalaryUnitText,
		Description:  j.DescriptionText,
		URL:          j.URL,
	}
}
