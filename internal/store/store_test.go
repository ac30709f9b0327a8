package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testScan(end time.Time) *Scan {
	return &Scan{
		StartedAt:      end.Add(-90 * time.Second),
		FinishedAt:     end,
		WindowStart:    end.Add(-2 * time.Hour),
		WindowEnd:      end,
		PostsCollected: 240,
		TotalMentions:  118,
		TickersRanked:  2,
	}
}

func testScores() []Score {
	return []Score{
		{
			Ticker: "GME", Rank: 1, HypeScore: 0.91, VolumeScore: 0.92, SentimentScore: 0.88,
			MentionCount: 80, Velocity: 40, SpikeRatio: 2.5, KeywordScore: 0.7, LibraryScore: 0.5,
			Confidence: 0.74, Trend: "improving", Platforms: []string{"reddit", "twitter"},
		},
		{
			Ticker: "TSLA", Rank: 2, HypeScore: 0.64, VolumeScore: 0.7, SentimentScore: 0.5,
			MentionCount: 38, Velocity: 19, SpikeRatio: 1.1, KeywordScore: 0.2, LibraryScore: 0.3,
			Confidence: 0.6, Trend: "stable", Platforms: []string{"stocktwits"},
		},
	}
}

func TestSaveScanAndLatest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	none, err := s.LatestScan(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	end := time.Now().UTC().Truncate(time.Second)
	first := testScan(end.Add(-time.Hour))
	require.NoError(t, s.SaveScan(ctx, first, nil))
	assert.Positive(t, first.ID)

	second := testScan(end)
	require.NoError(t, s.SaveScan(ctx, second, testScores()))

	latest, err := s.LatestScan(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, 240, latest.PostsCollected)
	assert.Equal(t, 118, latest.TotalMentions)
	assert.WithinDuration(t, end, latest.WindowEnd, time.Second)
}

func TestScanScores(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	scan := testScan(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.SaveScan(ctx, scan, testScores()))

	scores, err := s.ScanScores(ctx, scan.ID)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Equal(t, "GME", scores[0].Ticker)
	assert.Equal(t, 1, scores[0].Rank)
	assert.InDelta(t, 0.91, scores[0].HypeScore, 1e-9)
	assert.Equal(t, []string{"reddit", "twitter"}, scores[0].Platforms)
	assert.Equal(t, "improving", scores[0].Trend)
	assert.False(t, scores[0].Alerted)
	assert.Equal(t, "TSLA", scores[1].Ticker)
}

func TestTickerHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	end := time.Now().UTC().Truncate(time.Second)
	older := testScan(end.Add(-time.Hour))
	require.NoError(t, s.SaveScan(ctx, older, testScores()))
	newer := testScan(end)
	require.NoError(t, s.SaveScan(ctx, newer, testScores()))

	points, err := s.TickerHistory(ctx, "GME", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "GME", points[0].Ticker)
	assert.WithinDuration(t, end, points[0].ScanTime, time.Second)
	assert.True(t, points[0].ScanTime.After(points[1].ScanTime))
	assert.Equal(t, []string{"reddit", "twitter"}, points[0].Platforms)

	limited, err := s.TickerHistory(ctx, "GME", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	empty, err := s.TickerHistory(ctx, "ZZZZ", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBaselines(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	baselines, err := s.Baselines(ctx)
	require.NoError(t, err)
	assert.Nil(t, baselines)

	scan := testScan(time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.SaveScan(ctx, scan, testScores()))

	baselines, err = s.Baselines(ctx)
	require.NoError(t, err)
	require.Len(t, baselines, 2)

	gme, ok := baselines["GME"]
	require.True(t, ok)
	assert.Equal(t, 80, gme.MentionCount)
	assert.InDelta(t, 2.0, gme.Window.Hours(), 0.01)
}

func TestUnalertedScoresAndMarkAlerted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	end := time.Now().UTC().Truncate(time.Second)
	older := testScan(end.Add(-time.Hour))
	require.NoError(t, s.SaveScan(ctx, older, testScores()))
	newer := testScan(end)
	require.NoError(t, s.SaveScan(ctx, newer, testScores()))

	hot, err := s.UnalertedScores(ctx, 0.8)
	require.NoError(t, err)
	require.Len(t, hot, 1, "only the latest scan's scores alert")
	assert.Equal(t, "GME", hot[0].Ticker)
	assert.Equal(t, newer.ID, hot[0].ScanID)

	require.NoError(t, s.MarkAlerted(ctx, hot[0].ID))

	again, err := s.UnalertedScores(ctx, 0.8)
	require.NoError(t, err)
	assert.Empty(t, again)

	all, err := s.UnalertedScores(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "TSLA", all[0].Ticker)
}
