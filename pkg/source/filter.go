package source

import "strings"

// DefaultFinanceKeywords is the base set used for filtering finance-related content.
var DefaultFinanceKeywords = []string{
	"buy", "sell", "hold", "moon", "rocket", "bullish", "bearish",
	"calls", "puts", "options", "yolo", "diamond hands", "paper hands",
	"squeeze", "pump", "dump", "hodl", "dip", "rally", "ath",
	"to the moon", "stonks", "resistance", "support", "breakout",
	"earnings", "due diligence",
	"crypto", "bitcoin", "btc", "ethereum", "altcoin", "defi",
	"stock", "shares", "portfolio", "ticker", "short interest",
}

// Filter holds keyword lists for finance content matching.
type Filter struct {
	keywords []string
	exclude  []string
}

// NewFilter creates a filter with default finance keywords plus extras.
func NewFilter(extraKeywords, excludeKeywords []string) *Filter {
	keywords := make([]string, len(DefaultFinanceKeywords))
	copy(keywords, DefaultFinanceKeywords)
	keywords = append(keywords, extraKeywords...)

	// Lowercase all keywords for case-insensitive matching.
	for i, kw := range keywords {
		keywords[i] = strings.ToLower(kw)
	}

	exclude := make([]string, len(excludeKeywords))
	for i, kw := range excludeKeywords {
		exclude[i] = strings.ToLower(kw)
	}

	return &Filter{keywords: keywords, exclude: exclude}
}

// Relevant returns true if text looks like finance chatter worth scoring.
// Cashtag-style $SYMBOL references pass without a keyword hit.
func (f *Filter) Relevant(text string) bool {
	lower := strings.ToLower(text)

	for _, ex := range f.exclude {
		if strings.Contains(lower, ex) {
			return false
		}
	}

	if strings.Contains(lower, "$") {
		return true
	}

	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RelevantDefault uses the default keyword list without extras.
func RelevantDefault(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "$") {
		return true
	}
	for _, kw := range DefaultFinanceKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
