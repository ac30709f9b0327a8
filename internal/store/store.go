package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/elonfeng/tickerpulse/pkg/hype"
)

// Scan records one completed collection and scoring cycle.
type Scan struct {
	ID             int64     `db:"id" json:"id"`
	StartedAt      time.Time `db:"started_at" json:"started_at"`
	FinishedAt     time.Time `db:"finished_at" json:"finished_at"`
	WindowStart    time.Time `db:"window_start" json:"window_start"`
	WindowEnd      time.Time `db:"window_end" json:"window_end"`
	PostsCollected int       `db:"posts_collected" json:"posts_collected"`
	TotalMentions  int       `db:"total_mentions" json:"total_mentions"`
	TickersRanked  int       `db:"tickers_ranked" json:"tickers_ranked"`
}

// Score is one ticker's persisted result within a scan.
type Score struct {
	ID             int64    `db:"id" json:"id"`
	ScanID         int64    `db:"scan_id" json:"scan_id"`
	Ticker         string   `db:"ticker" json:"ticker"`
	Rank           int      `db:"rank" json:"rank"`
	HypeScore      float64  `db:"hype_score" json:"hype_score"`
	VolumeScore    float64  `db:"volume_score" json:"volume_score"`
	SentimentScore float64  `db:"sentiment_score" json:"sentiment_score"`
	MentionCount   int      `db:"mention_count" json:"mentions"`
	Velocity       float64  `db:"velocity" json:"velocity"`
	SpikeRatio     float64  `db:"spike_ratio" json:"spike_ratio"`
	KeywordScore   float64  `db:"keyword_score" json:"keyword_score"`
	LibraryScore   float64  `db:"library_score" json:"library_score"`
	Confidence     float64  `db:"confidence" json:"confidence"`
	Trend          string   `db:"trend" json:"trend"`
	PlatformsJSON  string   `db:"platforms" json:"-"`
	Platforms      []string `json:"platforms" db:"-"`
	Alerted        bool     `db:"alerted" json:"alerted"`
}

// HistoryPoint is one ticker's score from a past scan.
type HistoryPoint struct {
	Score
	ScanTime time.Time `db:"scan_time" json:"scan_time"`
}

// Store is the persistence interface.
type Store interface {
	SaveScan(ctx context.Context, scan *Scan, scores []Score) error
	LatestScan(ctx context.Context) (*Scan, error)
	ScanScores(ctx context.Context, scanID int64) ([]Score, error)
	TickerHistory(ctx context.Context, ticker string, limit int) ([]HistoryPoint, error)
	Baselines(ctx context.Context) (map[string]hype.Baseline, error)
	UnalertedScores(ctx context.Context, minScore float64) ([]Score, error)
	MarkAlerted(ctx context.Context, scoreID int64) error
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveScan inserts a scan and its scores atomically, filling in scan.ID.
func (s *SQLiteStore) SaveScan(ctx context.Context, scan *Scan, scores []Score) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save scan: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO scans (started_at, finished_at, window_start, window_end, posts_collected, total_mentions, tickers_ranked)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, scan.StartedAt, scan.FinishedAt, scan.WindowStart, scan.WindowEnd,
		scan.PostsCollected, scan.TotalMentions, scan.TickersRanked)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	scan.ID, _ = res.LastInsertId()

	for i := range scores {
		sc := &scores[i]
		sc.ScanID = scan.ID
		platformsJSON, _ := json.Marshal(sc.Platforms)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hype_scores (scan_id, ticker, rank, hype_score, volume_score, sentiment_score,
				mention_count, velocity, spike_ratio, keyword_score, library_score, confidence, trend, platforms, alerted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, sc.ScanID, sc.Ticker, sc.Rank, sc.HypeScore, sc.VolumeScore, sc.SentimentScore,
			sc.MentionCount, sc.Velocity, sc.SpikeRatio, sc.KeywordScore, sc.LibraryScore,
			sc.Confidence, sc.Trend, string(platformsJSON), sc.Alerted)
		if err != nil {
			return fmt.Errorf("insert score %s: %w", sc.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scan: %w", err)
	}
	return nil
}

// LatestScan returns the most recent scan, or nil when none exist.
func (s *SQLiteStore) LatestScan(ctx context.Context) (*Scan, error) {
	var scan Scan
	err := s.db.GetContext(ctx, &scan, "SELECT * FROM scans ORDER BY id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest scan: %w", err)
	}
	return &scan, nil
}

// ScanScores returns a scan's scores ordered by rank.
func (s *SQLiteStore) ScanScores(ctx context.Context, scanID int64) ([]Score, error) {
	var scores []Score
	err := s.db.SelectContext(ctx, &scores,
		"SELECT * FROM hype_scores WHERE scan_id = ? ORDER BY rank", scanID)
	if err != nil {
		return nil, fmt.Errorf("scan scores %d: %w", scanID, err)
	}
	decodePlatforms(scores)
	return scores, nil
}

// TickerHistory returns a ticker's scores from recent scans, newest first.
func (s *SQLiteStore) TickerHistory(ctx context.Context, ticker string, limit int) ([]HistoryPoint, error) {
	if limit <= 0 {
		limit = 50
	}
	var points []HistoryPoint
	err := s.db.SelectContext(ctx, &points, `
		SELECT h.*, s.window_end AS scan_time
		FROM hype_scores h
		JOIN scans s ON s.id = h.scan_id
		WHERE h.ticker = ?
		ORDER BY s.window_end DESC
		LIMIT ?
	`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("ticker history %s: %w", ticker, err)
	}
	for i := range points {
		json.Unmarshal([]byte(points[i].PlatformsJSON), &points[i].Platforms)
	}
	return points, nil
}

// Baselines exposes the latest scan's per-ticker mention counts as spike
// baselines for the next scan. Returns nil when no scan has run yet.
func (s *SQLiteStore) Baselines(ctx context.Context) (map[string]hype.Baseline, error) {
	scan, err := s.LatestScan(ctx)
	if err != nil || scan == nil {
		return nil, err
	}
	scores, err := s.ScanScores(ctx, scan.ID)
	if err != nil {
		return nil, err
	}

	window := hype.TimeWindow{Start: scan.WindowStart, End: scan.WindowEnd}
	baselines := make(map[string]hype.Baseline, len(scores))
	for _, sc := range scores {
		baselines[sc.Ticker] = hype.Baseline{MentionCount: sc.MentionCount, Window: window}
	}
	return baselines, nil
}

// UnalertedScores returns the latest scan's scores at or above minScore that
// have not been alerted yet, ordered by rank.
func (s *SQLiteStore) UnalertedScores(ctx context.Context, minScore float64) ([]Score, error) {
	var scores []Score
	err := s.db.SelectContext(ctx, &scores, `
		SELECT * FROM hype_scores
		WHERE alerted = 0 AND hype_score >= ? AND scan_id = (SELECT MAX(id) FROM scans)
		ORDER BY rank
	`, minScore)
	if err != nil {
		return nil, fmt.Errorf("unalerted scores: %w", err)
	}
	decodePlatforms(scores)
	return scores, nil
}

// MarkAlerted flags a score so it is not alerted twice.
func (s *SQLiteStore) MarkAlerted(ctx context.Context, scoreID int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE hype_scores SET alerted = 1 WHERE id = ?", scoreID)
	if err != nil {
		return fmt.Errorf("mark alerted %d: %w", scoreID, err)
	}
	return nil
}

func decodePlatforms(scores []Score) {
	for i := range scores {
		json.Unmarshal([]byte(scores[i].PlatformsJSON), &scores[i].Platforms)
	}
}
