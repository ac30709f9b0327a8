package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterRelevant(t *testing.T) {
	f := NewFilter(nil, nil)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"cashtag passes without keywords", "$GME is halted again", true},
		{"keyword match", "thoughts on the earnings call?", true},
		{"keyword is case-insensitive", "EXTREMELY BULLISH here", true},
		{"slang keyword", "stonks only go up", true},
		{"off-topic", "look at this picture of my cat", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Relevant(tt.text))
		})
	}
}

func TestFilterExtraAndExclude(t *testing.T) {
	f := NewFilter([]string{"fintwit"}, []string{"giveaway"})

	assert.True(t, f.Relevant("big fintwit drama today"))
	assert.False(t, f.Relevant("bullish GIVEAWAY, retweet to enter"), "exclude wins over keywords")
	assert.False(t, f.Relevant("$GME giveaway inside"), "exclude wins over cashtags")
}

func TestRelevantDefault(t *testing.T) {
	assert.True(t, RelevantDefault("loaded up on calls"))
	assert.False(t, RelevantDefault("weekend hiking photos"))
}
