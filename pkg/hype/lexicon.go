package hype

import (
	"strings"
	"unicode"
)

// LexiconVersion identifies the built-in term table. Bump when weights change
// so persisted scores can be traced to the table that produced them.
const LexiconVersion = "v1"

const (
	// maxLexiconWeight is the largest absolute term weight in the table;
	// it anchors normalization of keyword scores into [-1,1].
	maxLexiconWeight = 3.0
	// contextWindow is how many tokens on each side of a matched term are
	// scanned for boosters and negators.
	contextWindow = 3
	// negatorDamping flips a negated term's sign at slightly reduced
	// strength ("not great" is bad, but weaker than "terrible").
	negatorDamping = 0.8
)

// Lexicon is the finance-sentiment term table: term weights (bigrams
// allowed), booster multipliers (>1 intensifies, <1 softens), and negators.
type Lexicon struct {
	terms    map[string]float64
	boosters map[string]float64
	negators map[string]bool
}

// DefaultLexicon returns the built-in table, tuned for stock/crypto chatter.
func DefaultLexicon() Lexicon {
	return Lexicon{
		terms: map[string]float64{
			// Strong positive.
			"moon": 3.0, "rocket": 3.0, "mooning": 3.0,
			"bullish": 2.5, "bull": 2.0, "bullrun": 2.5,
			"buy": 2.0, "long": 2.0, "calls": 1.5, "pump": 2.0,
			"diamond hands": 2.5, "hold": 1.5, "hodl": 2.0,
			"breakout": 2.0, "rally": 2.0, "surge": 2.5,
			"gains": 2.0, "profit": 2.0, "up": 1.5, "rise": 1.5,
			"green": 1.5, "winning": 2.0, "success": 2.0,
			"strong": 1.8, "solid": 1.8, "good": 1.5, "great": 2.0,
			"excellent": 2.5, "amazing": 2.5, "love": 2.0,
			"lambo": 2.5, "tendies": 2.0, "printing": 2.0, "brrr": 1.5,

			// Moderate positive.
			"positive": 1.5, "optimistic": 1.8, "confident": 1.8,
			"promising": 1.8, "opportunity": 1.5,
			"undervalued": 1.8, "cheap": 1.2, "dip": 1.0,
			"support": 1.2, "bounce": 1.5, "recovery": 1.8,
			"upgrade": 1.8, "beat": 1.5, "outperform": 2.0,
			"momentum": 1.5,

			// Strong negative.
			"crash": -3.0, "dump": -2.5, "bearish": -2.5, "bear": -2.0,
			"sell": -2.0, "short": -2.0, "puts": -1.5, "collapse": -3.0,
			"paper hands": -2.0, "panic": -2.5, "fear": -2.0,
			"drop": -2.0, "fall": -2.0, "plunge": -2.5, "tank": -2.5,
			"losses": -2.0, "loss": -2.0, "down": -1.5, "red": -1.5,
			"bad": -1.5, "terrible": -2.5, "awful": -2.5, "hate": -2.0,
			"disaster": -3.0, "dead": -2.5, "rekt": -2.5, "rug": -3.0,
			"scam": -3.0, "fraud": -3.0, "ponzi": -3.0,

			// Moderate negative.
			"negative": -1.5, "pessimistic": -1.8, "concerned": -1.5,
			"worried": -1.8, "doubt": -1.5, "uncertain": -1.2,
			"overvalued": -1.8, "expensive": -1.2, "risky": -1.5,
			"resistance": -1.2, "rejection": -1.5, "decline": -1.8,
			"downgrade": -1.8, "miss": -1.5, "underperform": -2.0,
			"weak": -1.5, "poor": -1.8, "disappointing": -2.0,
		},
		boosters: map[string]float64{
			"very": 1.5, "extremely": 2.0, "really": 1.3, "super": 1.8,
			"incredibly": 2.0, "absolutely": 1.8, "totally": 1.5,
			"completely": 1.8, "highly": 1.5, "massively": 2.0,
			"slightly": 0.5, "somewhat": 0.7, "little": 0.6, "bit": 0.6,
			"maybe": 0.5, "possibly": 0.6,
		},
		negators: map[string]bool{
			"not": true, "no": true, "never": true, "none": true,
			"nothing": true, "neither": true, "nowhere": true,
			"nobody": true, "hardly": true, "scarcely": true,
			"barely": true, "rarely": true,
		},
	}
}

// ScoreText returns the lexicon sentiment of text in [-1,1]: the sum of
// context-adjusted term weights divided by hits times the maximum table
// weight. Zero hits score 0.
func (l Lexicon) ScoreText(text string) float64 {
	tokens := tokenize(text)
	var sum float64
	hits := 0

	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) {
			if w, ok := l.terms[tokens[i]+" "+tokens[i+1]]; ok {
				sum += l.applyContext(tokens, i, w)
				hits++
				i++ // bigram consumed
				continue
			}
		}
		if w, ok := l.terms[tokens[i]]; ok {
			sum += l.applyContext(tokens, i, w)
			hits++
		}
	}

	if hits == 0 {
		return 0
	}
	return clamp(sum/(float64(hits)*maxLexiconWeight), -1, 1)
}

// applyContext adjusts one matched term's weight by the negators and
// boosters found within contextWindow tokens of it.
func (l Lexicon) applyContext(tokens []string, pos int, weight float64) float64 {
	lo := pos - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := pos + contextWindow + 1
	if hi > len(tokens) {
		hi = len(tokens)
	}
	window := tokens[lo:hi]

	for _, tok := range window {
		if l.negators[tok] {
			weight = -weight * negatorDamping
			break
		}
	}
	for _, tok := range window {
		if f, ok := l.boosters[tok]; ok {
			weight *= f
		}
	}
	return weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
