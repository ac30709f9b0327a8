package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostBody(t *testing.T) {
	assert.Equal(t, "GME to the moon", Post{Title: "GME to the moon"}.Body())
	assert.Equal(t, "just the text", Post{Text: "just the text"}.Body())
	assert.Equal(t, "title body", Post{Title: "title", Text: "body"}.Body())
	assert.Equal(t, "", Post{}.Body())
}

func TestParsePlatform(t *testing.T) {
	p, ok := ParsePlatform(" Reddit ")
	assert.True(t, ok)
	assert.Equal(t, PlatformReddit, p)

	p, ok = ParsePlatform("STOCKTWITS")
	assert.True(t, ok)
	assert.Equal(t, PlatformStockTwits, p)

	_, ok = ParsePlatform("myspace")
	assert.False(t, ok)
}

func TestAllPlatforms(t *testing.T) {
	assert.Equal(t, []Platform{PlatformTwitter, PlatformReddit, PlatformStockTwits}, AllPlatforms())
}
