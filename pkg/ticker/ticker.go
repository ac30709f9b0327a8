// Package ticker extracts stock and crypto symbols from social posts.
package ticker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/elonfeng/tickerpulse/pkg/hype"
	"github.com/elonfeng/tickerpulse/pkg/source"
)

// Symbols are matched against uppercased text, so the patterns spell their
// literals in uppercase. Each pattern captures the candidate symbol in
// group 1.
var extractionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$([A-Z]{1,5})\b`),                                              // $AAPL
	regexp.MustCompile(`\b([A-Z]{2,5})\s+(?:STOCK|SHARES?|TICKER|CALLS?|PUTS?)\b`),      // "AAPL stock", "TSLA calls"
	regexp.MustCompile(`\b(?:BUY|SELL|LONG|SHORT)\s+([A-Z]{2,5})\b`),                    // "buy AAPL"
	regexp.MustCompile(`\b([A-Z]{3,5})(?:USD|BTC|ETH)\b`),                               // ADAUSD, DOGEBTC
	regexp.MustCompile(`\b(BTC|ETH|ADA|DOT|LINK|LTC|XRP|BCH|BNB|SOL|DOGE|SHIB)\b`),      // bare crypto names
}

var exchangeSuffixes = []string{".TO", ".V", ".L", ".PA", ".DE", ".HK"}

// Symbols that appear in a large stock universe file when one is wired in.
// Below knownListThreshold the extractor treats the list as a sample and
// admits unknown symbols too.
var defaultKnownSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "META", "NVDA", "AMD", "SPY", "QQQ",
	"GME", "AMC", "BB", "NOK", "PLTR", "WISH", "CLOV", "MVIS", "SNDL", "RKT",
	"BTC", "ETH", "ADA", "DOT", "LINK", "LTC", "XRP", "BCH", "BNB", "SOL",
	"DOGE", "SHIB", "SAFEMOON", "PEPE", "FLOKI", "ELON", "BABYDOGE",
}

// knownListThreshold separates a baked-in sample list from an authoritative
// symbol universe. Only an authoritative list turns on strict matching.
const knownListThreshold = 100

// excludedWords are capitalized English words and forum jargon that the
// context patterns routinely mistake for symbols ("LONG TERM", "BUY MORE").
var excludedWords = toSet([]string{
	"ABOVE", "ACT", "ADD", "AFTER", "AGAIN", "AGO", "AHEAD", "AIR", "ALL",
	"ALSO", "ALWAYS", "AN", "AND", "ANIMAL", "ANSWER", "ANY", "ARE", "ARM",
	"AS", "ASK", "AT", "BACK", "BAD", "BASE", "BEACH", "BEEN", "BEFORE",
	"BEGAN", "BEGINNING", "BEING", "BETWEEN", "BIG", "BIRD", "BNB", "BODY", "BOOK",
	"BOTH", "BOY", "BTC", "BUILD", "BUT", "BUY", "BY", "CALLED", "CALLS",
	"CAME", "CAN", "CAR", "CARE", "CARRY", "CAUSE", "CHANGE", "CHEAP", "CHILDREN",
	"CITY", "COLOR", "COME", "COUNTRY", "COVER", "COVID", "CROSS", "CUT", "DAY",
	"DD", "DID", "DIFFER", "DOES", "DOG", "DOT", "DRAW", "DURING", "DYING",
	"EARTH", "EASE", "EAT", "END", "ENOUGH", "ETH", "EVEN", "EVER", "EVERY",
	"EXAMPLE", "EYE", "FACE", "FAMILY", "FAR", "FARM", "FATHER", "FEEL", "FEET",
	"FEW", "FIELD", "FIND", "FISH", "FOLLOW", "FOOD", "FOR", "FORM", "FOUND",
	"FOUR", "FRIEND", "FROM", "FUN", "GET", "GIRL", "GIVE", "GOD", "GOOD",
	"GOT", "GREAT", "GROUP", "GROW", "HAD", "HAND", "HARD", "HAUL", "HAVE",
	"HEAD", "HEAR", "HELP", "HER", "HERE", "HIGH", "HIM", "HOME", "HORSE",
	"HOUSE", "HOW", "IDEA", "ILL", "IN", "INTO", "ITS", "JUST", "KEEP",
	"KIND", "KNOW", "LAND", "LARGE", "LAST", "LATE", "LEARN", "LEAVE", "LEFT",
	"LESS", "LET", "LETTER", "LIFE", "LIGHT", "LIKE", "LINE", "LINK", "LIST",
	"LITTLE", "LIVE", "LONG", "LOOK", "LOW", "LYC", "MADE", "MAIN", "MAKE",
	"MAN", "MANY", "MARK", "MAY", "ME", "MEAN", "MEN", "MIGHT", "MILE",
	"MOONS", "MORE", "MOTHER", "MOUNTAIN", "MOVE", "MUCH", "MUSIC", "MUST", "MY",
	"NAME", "NEAR", "NEED", "NEVER", "NEW", "NEXT", "NICE", "NORTH", "NOT",
	"NOTHING", "NOW", "OF", "OFF", "OFTEN", "OLD", "ONCE", "ONE", "ONLY",
	"OPEN", "OUR", "OVER", "OWN", "PAGE", "PAPER", "PART", "PER", "PICTURE",
	"PLACE", "PLAIN", "PLANT", "PLAY", "POINT", "POSSIBLE", "POST", "PUT", "RAIN",
	"RANGE", "RATES", "READ", "READY", "REAL", "REALLY", "RED", "RIGHT", "RIVER",
	"ROOM", "ROUND", "RTA", "RUN", "SAME", "SAW", "SAY", "SCHOOL", "SEA",
	"SECOND", "SEE", "SEEM", "SELF", "SENTENCE", "SET", "SEVERAL", "SHE", "SHOULD",
	"SHOW", "SIDE", "SIT", "SIX", "SMALL", "SOME", "SOON", "SPELL", "STAND",
	"START", "STARTED", "STATE", "STILL", "STOP", "STORY", "STUDY", "STUFF", "SUCH",
	"SUN", "SURE", "TAILS", "TAKE", "TALK", "TECH", "TELL", "TERM", "THAN",
	"THAT", "THE", "THEM", "THEY", "THINK", "THIS", "THOSE", "THOUGH", "THOUGHT",
	"THREE", "THROUGH", "TIME", "TO", "TOGETHER", "TOO", "TOOK", "TREE", "TRUMP",
	"TRY", "TURN", "UNDER", "UNTIL", "US", "USE", "USING", "USUAL", "VALID",
	"VERY", "VISAS", "WALK", "WANT", "WAS", "WATCH", "WAY", "WELL", "WENT",
	"WERE", "WHAT", "WHEN", "WHERE", "WHILE", "WHITE", "WHO", "WHY", "WILL",
	"WITH", "WOOD", "WORK", "WORLD", "WRITE", "YEAR", "YES", "YET", "YOU",
	"YOUNG", "YOUR",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Extractor finds ticker symbols in free-form text.
type Extractor struct {
	known   map[string]struct{}
	allow   map[string]struct{}
	exclude map[string]struct{}
	strict  bool
}

// NewExtractor builds an extractor. extra symbols are always admitted, even
// when the built-in word filter would reject them. exclude symbols are never
// admitted. If extra grows the known list past knownListThreshold the
// extractor turns strict and recognizes only listed symbols.
func NewExtractor(extra, exclude []string) *Extractor {
	e := &Extractor{
		known:   toSet(defaultKnownSymbols),
		allow:   make(map[string]struct{}, len(extra)),
		exclude: make(map[string]struct{}, len(exclude)),
	}
	for _, sym := range extra {
		sym = Normalize(sym)
		if sym == "" {
			continue
		}
		e.allow[sym] = struct{}{}
		e.known[sym] = struct{}{}
	}
	for _, sym := range exclude {
		if sym = Normalize(sym); sym != "" {
			e.exclude[sym] = struct{}{}
		}
	}
	e.strict = len(e.known) > knownListThreshold
	return e
}

// Normalize uppercases a raw symbol and strips the cashtag prefix and any
// exchange suffix ("$shop.to" -> "SHOP").
func Normalize(raw string) string {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	sym = strings.TrimPrefix(sym, "$")
	for _, suffix := range exchangeSuffixes {
		if strings.HasSuffix(sym, suffix) {
			sym = strings.TrimSuffix(sym, suffix)
			break
		}
	}
	return sym
}

// Extract returns the distinct valid symbols mentioned in text, sorted.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}
	upper := strings.ToUpper(text)

	seen := make(map[string]struct{})
	for _, pattern := range extractionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(upper, -1) {
			sym := Normalize(match[1])
			if e.valid(sym) {
				seen[sym] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

func (e *Extractor) valid(sym string) bool {
	if len(sym) < 2 || len(sym) > 5 {
		return false
	}
	for _, r := range sym {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	if _, ok := e.exclude[sym]; ok {
		return false
	}
	if _, ok := e.allow[sym]; ok {
		return true
	}
	if _, ok := excludedWords[sym]; ok {
		return false
	}
	if e.strict {
		_, ok := e.known[sym]
		return ok
	}
	return true
}

// Mentions runs extraction over collected posts and flattens the result into
// one mention per distinct symbol per post.
func (e *Extractor) Mentions(posts []source.Post) []hype.Mention {
	var mentions []hype.Mention
	for _, post := range posts {
		body := post.Body()
		for _, sym := range e.Extract(body) {
			mentions = append(mentions, hype.Mention{
				Ticker:     sym,
				Platform:   post.Platform,
				Timestamp:  post.CreatedAt,
				Text:       body,
				Engagement: post.Engagement,
			})
		}
	}
	return mentions
}
