package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fandance/internal/domain"
	"github.com/aristath/fandance/internal/modules/sentiment"
	testingpkg "github.com/aristath/fandance/internal/testing"
)

func TestHandleNews(t *testing.T) {
	news := testingpkg.NewMockNewsProvider()
	news.SetNews("Microsoft", []domain.NewsItem{{Title: "MSFT beats", Link: "https://example.com/msft", Publisher: "News", Time: "Reciente"}})

	router := chi.NewRouter()
	service := sentiment.NewService(testingpkg.NewMockMarketDataProvider(), news, 2, zerolog.Nop())
	NewHandler(service, zerolog.Nop()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/portfolio/news",
		bytes.NewBufferString(`{"assets":[{"ticker":"MSFT","name":"Microsoft"}]}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		News       map[string][]domain.NewsItem `json:"news"`
		Sentiments map[string]map[string]any    `json:"sentiments"`
		Aggregate  map[string]any               `json:"aggregate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.News["MSFT"], 1)
	assert.Equal(t, "MSFT beats", resp.News["MSFT"][0].Title)
	assert.Equal(t, 50.0, resp.Sentiments["MSFT"]["score"])
	assert.Equal(t, "yellow", resp.Aggregate["color"])
}

func TestHandleNews_BadBody(t *testing.T) {
	router := chi.NewRouter()
	service := sentiment.NewService(testingpkg.NewMockMarketDataProvider(), testingpkg.NewMockNewsProvider(), 1, zerolog.Nop())
	NewHandler(service, zerolog.Nop()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/portfolio/news", bytes.NewBufferString(`[`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
