// Package sentiment gathers recent news and an RSI-based market mood for the
// assets of a portfolio.
package sentiment

import (
	"regexp"
	"strings"

	"github.com/aristath/fandance/internal/domain"
)

const (
	// RSIPeriod is the look-back length of the RSI
	RSIPeriod = 14
	// HistoryPeriod and HistoryInterval select the closes the RSI is computed on
	HistoryPeriod   = "1mo"
	HistoryInterval = "1d"
	// MaxNewsPerAsset caps the headlines returned for each asset
	MaxNewsPerAsset = 4
)

// Colors used by the frontend to paint a score
const (
	ColorVeryGreen = "very_green"
	ColorGreen     = "green"
	ColorYellow    = "yellow"
	ColorOrange    = "orange"
	ColorRed       = "red"
)

// AssetRef identifies an asset to analyse
type AssetRef struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Score is an RSI value with its label and display color
type Score struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Report is the news and sentiment of a set of assets, keyed by ticker
type Report struct {
	News       map[string][]domain.NewsItem `json:"news"`
	Sentiments map[string]Score             `json:"sentiments"`
	Aggregate  Score                        `json:"aggregate"`
}

// NewScore labels an RSI value
func NewScore(score int) Score {
	switch {
	case score >= 70:
		return Score{Score: score, Label: "Sobrecompra (RSI)", Color: ColorVeryGreen}
	case score >= 60:
		return Score{Score: score, Label: "Alcista (RSI)", Color: ColorGreen}
	case score <= 30:
		return Score{Score: score, Label: "Sobreventa (RSI)", Color: ColorRed}
	case score <= 40:
		return Score{Score: score, Label: "Bajista (RSI)", Color: ColorOrange}
	default:
		return Score{Score: score, Label: "Neutral (RSI)", Color: ColorYellow}
	}
}

// fundNoise matches fund-marketing words that make news searches miss
var fundNoise = regexp.MustCompile(`(?i)(UCITS|ETF|Acc|Dist|EUR|USD|Class|\(.*\)|Corp|Bond|Index|Fund|iShares|Vanguard|Amundi|Xtrackers|SPDR|Invesco)`)

// QueryTerm turns an asset name into a news search term.
// Names that clean down to three characters or fewer fall back to the ticker.
func QueryTerm(name, ticker string) string {
	cleaned := strings.Join(strings.Fields(fundNoise.ReplaceAllString(name, "")), " ")
	if len(cleaned) > 3 {
		return cleaned
	}
	return ticker
}
