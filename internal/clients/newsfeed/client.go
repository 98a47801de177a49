// Package newsfeed provides an RSS news search client.
package newsfeed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/fandance/internal/domain"
)

const (
	DefaultBaseURL   = "https://news.google.com/rss/search"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second

	// DefaultPublisher is used when an item carries no source
	DefaultPublisher = "News"
	// DefaultTime is used when an item carries no publication date
	DefaultTime = "Reciente"
)

// Client searches an RSS endpoint (Google News compatible) and implements domain.NewsProvider
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the search endpoint
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout bounds every feed request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new news feed client
func NewClient(log zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:        log.With().Str("client", "newsfeed").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchNews fetches at most limit headlines for "<term> finance news"
func (c *Client) SearchNews(ctx context.Context, term string, limit int) ([]domain.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w: %v", domain.ErrUpstreamUnavailable, err)
	}

	params := url.Values{}
	params.Set("q", strings.TrimSpace(term)+" finance news")
	params.Set("hl", "en-US")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/rss+xml, application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	parser := rss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w: %v", domain.ErrUpstreamUnavailable, err)
	}

	items := make([]domain.NewsItem, 0, limit)
	for _, item := range feed.Items {
		if limit > 0 && len(items) == limit {
			break
		}
		items = append(items, toNewsItem(item))
	}

	c.log.Debug().Str("term", term).Int("count", len(items)).Msg("Fetched news")

	return items, nil
}

func toNewsItem(item *rss.Item) domain.NewsItem {
	publisher := DefaultPublisher
	if item.Source != nil && strings.TrimSpace(item.Source.Title) != "" {
		publisher = strings.TrimSpace(item.Source.Title)
	}

	published := strings.TrimSpace(item.PubDate)
	if published == "" {
		published = DefaultTime
	}

	return domain.NewsItem{
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Publisher: publisher,
		Time:      published,
	}
}
