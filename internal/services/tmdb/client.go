package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"cleanmedia/internal/logging"
	"cleanmedia/internal/services"
)

// DefaultMinInterval is the minimum spacing between search requests.
const DefaultMinInterval = 250 * time.Millisecond

// Result represents a single TMDB movie search match.
type Result struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
}

// Year returns the four digit release year, or "" when TMDB has no date.
func (r Result) Year() string {
	if len(r.ReleaseDate) < 4 {
		return ""
	}
	return r.ReleaseDate[:4]
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalResults int      `json:"total_results"`
}

// Lookup resolves a movie title to its canonical title and release year.
type Lookup interface {
	LookupYear(ctx context.Context, title string) (string, string, bool)
}

type match struct {
	title string
	year  string
	ok    bool
}

// Client searches TMDB with a request rate limit and a per-title memo that
// lives as long as the client, negative answers included.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]match
}

var _ Lookup = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMinInterval sets the minimum spacing between requests. Zero disables
// rate limiting.
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithLogger attaches a logger for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "tmdb")
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "tmdb api key required", nil)
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tmdb", "new client", "tmdb base url required", nil)
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
		logger:     logging.NewNop(),
		cache:      make(map[string]match),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie performs one rate limited movie search.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search/movie")
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tmdb rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tmdb", "search", fmt.Sprintf("request failed (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		marker := services.ErrExternalTool
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			marker = services.ErrTransient
		}
		return nil, services.Wrap(marker, "tmdb", "search", fmt.Sprintf("tmdb search returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb response: %w", err)
	}
	return &payload, nil
}

// LookupYear returns the first search result's title and year. Failures and
// empty results are remembered and reported as not found.
func (c *Client) LookupYear(ctx context.Context, title string) (string, string, bool) {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return "", "", false
	}
	c.mu.Lock()
	cached, hit := c.cache[key]
	c.mu.Unlock()
	if hit {
		return cached.title, cached.year, cached.ok
	}

	result := c.lookup(ctx, title)
	c.mu.Lock()
	c.cache[key] = result
	c.mu.Unlock()
	return result.title, result.year, result.ok
}

func (c *Client) lookup(ctx context.Context, title string) match {
	logger := logging.WithContext(ctx, c.logger)
	resp, err := c.SearchMovie(ctx, title)
	if err != nil {
		logging.WarnWithContext(logger, "tmdb lookup failed", services.EventType(err),
			logging.String("title", title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check tmdb.api_key and network access"),
			logging.String(logging.FieldImpact, "movie left unparsed"),
		)
		return match{}
	}
	for _, result := range resp.Results {
		year := result.Year()
		name := strings.TrimSpace(result.Title)
		if year == "" || name == "" {
			continue
		}
		logger.Debug("tmdb lookup matched",
			logging.String("title", title),
			logging.String("match", name),
			logging.String("year", year),
		)
		return match{title: name, year: year, ok: true}
	}
	logger.Debug("tmdb lookup found nothing", logging.String("title", title))
	return match{}
}

// Noop never finds anything. It stands in when lookup is disabled.
type Noop struct{}

var _ Lookup = Noop{}

func (Noop) LookupYear(context.Context, string) (string, string, bool) { return "", "", false }
