// Package yahoo provides a Yahoo Finance market data client.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aristath/fandance/internal/domain"
)

const (
	DefaultBaseURL    = "https://query1.finance.yahoo.com"
	DefaultSearchURL  = "https://query2.finance.yahoo.com"
	DefaultTimeout    = 10 * time.Second
	DefaultRateLimit  = 5 // requests per second
	DefaultMaxRetries = 2

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client is a Yahoo Finance API client implementing domain.MarketDataProvider
type Client struct {
	baseURL      string
	searchURL    string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	httpClient   *http.Client
	limiter      *rate.Limiter
	log          zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the chart and quote host
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSearchURL sets the symbol search host
func WithSearchURL(searchURL string) ClientOption {
	return func(c *Client) {
		c.searchURL = strings.TrimRight(searchURL, "/")
	}
}

// WithRateLimit sets the rate limit shared by every call on this client
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout bounds every upstream call
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRetries sets how many attempts a failed request gets and the initial backoff
func WithRetries(maxRetries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBackoff = backoff
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		searchURL:    DefaultSearchURL,
		timeout:      DefaultTimeout,
		maxRetries:   DefaultMaxRetries,
		retryBackoff: 500 * time.Millisecond,
		httpClient:   &http.Client{},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:          log.With().Str("client", "yahoo").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}

	return c
}

// ClassifyQuoteType maps a Yahoo quoteType onto the asset types the catalog stores
func ClassifyQuoteType(quoteType string) domain.AssetType {
	upper := strings.ToUpper(quoteType)
	switch {
	case strings.Contains(upper, "ETF"):
		return domain.AssetTypeETF
	case strings.Contains(upper, "CRYPTO"):
		return domain.AssetTypeCrypto
	case strings.Contains(upper, "FUND"):
		return domain.AssetTypeFund
	default:
		return domain.AssetTypeStock
	}
}

// GetCurrentPrice returns the regular market price from the chart endpoint,
// falling back to the most recent non-null close
func (c *Client) GetCurrentPrice(ctx context.Context, ticker string) (float64, error) {
	chart, err := c.fetchChart(ctx, ticker, "5d", "1d")
	if err != nil {
		return 0, err
	}

	result := chart.Chart.Result[0]
	if p := result.Meta.RegularMarketPrice; p != nil && *p > 0 {
		return *p, nil
	}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] != nil && *closes[i] > 0 {
				return *closes[i], nil
			}
		}
	}

	return 0, fmt.Errorf("no price available for %s: %w", ticker, domain.ErrUpstreamUnavailable)
}

// GetAssetMetadata resolves name, type, sector, country and currency for ticker.
// The quote endpoint is tried first; the chart metadata is the fallback. Missing
// fields take the catalog defaults.
func (c *Client) GetAssetMetadata(ctx context.Context, ticker string) (*domain.AssetMetadata, error) {
	meta := &domain.AssetMetadata{
		Name:     ticker,
		Type:     domain.AssetTypeStock,
		Sector:   domain.DefaultSector,
		Country:  domain.DefaultCountry,
		Currency: domain.DefaultCurrency,
	}

	info, err := c.getQuoteInfo(ctx, ticker)
	if err == nil {
		meta.Name = firstNonEmpty(getString(info, "longName", ""), getString(info, "shortName", ""), ticker)
		meta.Type = ClassifyQuoteType(getString(info, "quoteType", ""))
		meta.Sector = getString(info, "sector", domain.DefaultSector)
		meta.Country = getString(info, "country", domain.DefaultCountry)
		meta.Currency = getString(info, "currency", domain.DefaultCurrency)
		return meta, nil
	}

	c.log.Debug().Err(err).Str("ticker", ticker).Msg("Quote lookup failed, falling back to chart metadata")

	chart, chartErr := c.fetchChart(ctx, ticker, "5d", "1d")
	if chartErr != nil {
		return nil, errors.Join(err, chartErr)
	}

	m := chart.Chart.Result[0].Meta
	meta.Name = firstNonEmpty(m.LongName, m.ShortName, ticker)
	meta.Type = ClassifyQuoteType(m.InstrumentType)
	if m.Currency != "" {
		meta.Currency = m.Currency
	}
	return meta, nil
}

// GetHistoricalPrices fetches closes over period at interval.
// Null closes are dropped so callers see gaps rather than zeros.
//
// Supports periods: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max
func (c *Client) GetHistoricalPrices(ctx context.Context, ticker, period, interval string) ([]domain.PricePoint, error) {
	chart, err := c.fetchChart(ctx, ticker, period, interval)
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		c.log.Warn().Str("ticker", ticker).Msg("No quote data in chart response")
		return []domain.PricePoint{}, nil
	}

	closes := result.Indicators.Quote[0].Close
	points := make([]domain.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, domain.PricePoint{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	c.log.Debug().
		Str("ticker", ticker).
		Str("period", period).
		Str("interval", interval).
		Int("count", len(points)).
		Msg("Fetched historical prices")

	return points, nil
}

// SearchSymbols queries the Yahoo symbol search
func (c *Client) SearchSymbols(ctx context.Context, query string, limit int) ([]domain.SymbolMatch, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(limit))
	params.Set("newsCount", "0")

	body, err := c.get(ctx, c.searchURL+"/v1/finance/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	matches := make([]domain.SymbolMatch, 0, len(result.Quotes))
	for _, q := range result.Quotes {
		if q.Symbol == "" {
			continue
		}
		matches = append(matches, domain.SymbolMatch{
			Ticker:    q.Symbol,
			Name:      firstNonEmpty(q.ShortName, q.LongName, q.Symbol),
			QuoteType: q.QuoteType,
			Exchange:  q.Exchange,
		})
		if limit > 0 && len(matches) == limit {
			break
		}
	}

	return matches, nil
}

// fetchChart calls the v8 chart API and guarantees at least one result on success
func (c *Client) fetchChart(ctx context.Context, ticker, period, interval string) (*chartResponse, error) {
	params := url.Values{}
	params.Set("range", period)
	params.Set("interval", interval)

	reqURL := c.baseURL + "/v8/finance/chart/" + url.PathEscape(ticker) + "?" + params.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var result chartResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s: %w", ticker, result.Chart.Error.Description, domain.ErrUpstreamUnavailable)
	}
	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data returned for %s: %w", ticker, domain.ErrUpstreamUnavailable)
	}

	return &result, nil
}

// getQuoteInfo fetches quote information from the v7 quote API
func (c *Client) getQuoteInfo(ctx context.Context, ticker string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("symbols", ticker)
	params.Set("fields", "symbol,regularMarketPrice,quoteType,longName,shortName,sector,country,currency")

	body, err := c.get(ctx, c.baseURL+"/v7/finance/quote?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var result quoteResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}

	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("yahoo quote error for %s: %s: %w", ticker, result.QuoteResponse.Error.Description, domain.ErrUpstreamUnavailable)
	}
	if len(result.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote data returned for %s: %w", ticker, domain.ErrUpstreamUnavailable)
	}

	return result.QuoteResponse.Result[0], nil
}

// get performs a rate-limited GET bounded by the client timeout, retrying
// transport failures and 5xx/429 responses with exponential backoff
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryBackoff * time.Duration(1<<uint(attempt-1))
			c.log.Warn().Err(lastErr).
				Str("url", reqURL).
				Int("attempt", attempt+1).
				Dur("wait", wait).
				Msg("Yahoo request failed, retrying")

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, ctx.Err())
			case <-time.After(wait):
			}
		}

		body, retry, err := c.doGet(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) doGet(ctx context.Context, reqURL string) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limit wait: %w: %v", domain.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("yahoo request failed: %w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Debug().
			Str("url", reqURL).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Msg("Yahoo non-OK response")
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("yahoo returned status %d: %w", resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	return body, false, nil
}

// Helper functions to safely extract values from map

func getString(m map[string]interface{}, key string, defaultVal string) string {
	if val, ok := m[key]; ok && val != nil {
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return defaultVal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
