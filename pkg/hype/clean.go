package hype

import (
	"html"
	"regexp"
	"strings"
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	handlePattern     = regexp.MustCompile(`@\w+`)
	hashtagPattern    = regexp.MustCompile(`#(\w+)`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanText strips social-media noise before sentiment scoring: URLs,
// @handles, and HTML entities go, hashtags keep their text, cashtags keep
// their symbol. Slang is left alone so the lexicon can match it directly.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = html.UnescapeString(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = handlePattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "$1")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
