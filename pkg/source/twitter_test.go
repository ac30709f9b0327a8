package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineRSS(base string, recent, stale time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>@DeItaone</title>
<item>
	<title>$GME halted for volatility</title>
	<dc:creator>@DeItaone</dc:creator>
	<guid>https://nitter.net/DeItaone/status/111</guid>
	<link>%s/DeItaone/status/111</link>
	<pubDate>%s</pubDate>
</item>
<item>
	<title>what should I get for lunch</title>
	<dc:creator>@DeItaone</dc:creator>
	<guid>https://nitter.net/DeItaone/status/112</guid>
	<link>%s/DeItaone/status/112</link>
	<pubDate>%s</pubDate>
</item>
<item>
	<title>$TSLA delivery numbers are out</title>
	<dc:creator>@DeItaone</dc:creator>
	<guid>https://nitter.net/DeItaone/status/110</guid>
	<link>%s/DeItaone/status/110</link>
	<pubDate>%s</pubDate>
</item>
</channel>
</rss>`,
		base, recent.Format(time.RFC1123Z),
		base, recent.Format(time.RFC1123Z),
		base, stale.Format(time.RFC1123Z))
}

func searchRSS(base string, recent time.Time) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>Search results</title>
<item>
	<title>interesting volume on this one today</title>
	<dc:creator>@trader</dc:creator>
	<guid>https://nitter.net/trader/status/201</guid>
	<link>%s/trader/status/201</link>
	<pubDate>%s</pubDate>
</item>
</channel>
</rss>`, base, recent.Format(time.RFC1123Z))
}

func TestTwitterTimelineCollect(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour)
	stale := time.Now().UTC().Add(-48 * time.Hour)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/DeItaone/rss", r.URL.Path)
		fmt.Fprint(w, timelineRSS(srv.URL, recent, stale))
	}))
	defer srv.Close()

	tw := NewTwitter(srv.URL, []string{"DeItaone"}, nil, 24*time.Hour, NewFilter(nil, nil))

	posts, err := tw.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1, "stale and off-topic tweets are dropped")

	p := posts[0]
	assert.Equal(t, "twitter:https://nitter.net/DeItaone/status/111", p.ID)
	assert.Equal(t, PlatformTwitter, p.Platform)
	assert.Equal(t, "DeItaone", p.Author)
	assert.Equal(t, "$GME halted for volatility", p.Text)
	assert.Equal(t, "https://x.com/DeItaone/status/111", p.URL)
	assert.WithinDuration(t, recent, p.CreatedAt, 2*time.Second)
}

func TestTwitterSearchCollect(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/rss", r.URL.Path)
		assert.Equal(t, "tweets", r.URL.Query().Get("f"))
		assert.Equal(t, "$GME", r.URL.Query().Get("q"))
		fmt.Fprint(w, searchRSS(srv.URL, recent))
	}))
	defer srv.Close()

	tw := NewTwitter(srv.URL, nil, []string{"$GME"}, 24*time.Hour, NewFilter(nil, nil))

	posts, err := tw.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1, "search feeds skip the relevance filter")

	p := posts[0]
	assert.Equal(t, "trader", p.Author, "author comes from the feed entry")
	assert.Equal(t, "interesting volume on this one today", p.Text)
}

func TestTwitterFeedErrorsAreIsolated(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken/rss" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, searchRSS(srv.URL, recent))
	}))
	defer srv.Close()

	tw := NewTwitter(srv.URL, []string{"broken"}, []string{"$GME"}, 24*time.Hour, nil)

	posts, err := tw.Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 1, "search results survive a broken timeline feed")
}
