package newsfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/domain"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Search results</title>
    <item>
      <title>Apple beats estimates</title>
      <link>https://example.com/1</link>
      <pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate>
      <source url="https://reuters.com">Reuters</source>
    </item>
    <item>
      <title>Second headline</title>
      <link>https://example.com/2</link>
    </item>
    <item><title>Third</title><link>https://example.com/3</link></item>
    <item><title>Fourth</title><link>https://example.com/4</link></item>
    <item><title>Fifth</title><link>https://example.com/5</link></item>
  </channel>
</rss>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(zerolog.Nop(), WithBaseURL(server.URL), WithTimeout(2*time.Second), WithRateLimit(100))
}

func TestSearchNews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Apple finance news", r.URL.Query().Get("q"))
		assert.Equal(t, "US:en", r.URL.Query().Get("ceid"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	})

	items, err := client.SearchNews(context.Background(), "Apple", 4)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, domain.NewsItem{
		Title:     "Apple beats estimates",
		Link:      "https://example.com/1",
		Publisher: "Reuters",
		Time:      "Mon, 06 Jan 2025 10:00:00 GMT",
	}, items[0])
	assert.Equal(t, DefaultPublisher, items[1].Publisher)
	assert.Equal(t, DefaultTime, items[1].Time)
}

func TestSearchNews_UpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.SearchNews(context.Background(), "Apple", 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
}

func TestSearchNews_MalformedFeed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not xml at all"))
	})

	_, err := client.SearchNews(context.Background(), "Apple", 4)
	assert.Error(t, err)
}
