package universe

import "strings"

// tickerAliases maps shorthand tickers onto the listing the catalog tracks
var tickerAliases = map[string]string{
	"BTC": "BTC-EUR",
}

// NormalizeTicker trims and uppercases a ticker and resolves known aliases
func NormalizeTicker(ticker string) string {
	clean := strings.ToUpper(strings.TrimSpace(ticker))
	if alias, ok := tickerAliases[clean]; ok {
		return alias
	}
	return clean
}

// TypeDisplay returns the user-facing label for a search result's quote type
func TypeDisplay(quoteType string) string {
	upper := strings.ToUpper(quoteType)
	switch {
	case strings.Contains(upper, "ETF"):
		return "ETF"
	case strings.Contains(upper, "CRYPTO"):
		return "Cripto"
	case strings.Contains(upper, "FUND"):
		return "Fondo"
	default:
		return "Acción"
	}
}
