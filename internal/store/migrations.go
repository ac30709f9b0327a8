package store

const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at      DATETIME NOT NULL,
    finished_at     DATETIME NOT NULL,
    window_start    DATETIME NOT NULL,
    window_end      DATETIME NOT NULL,
    posts_collected INTEGER NOT NULL DEFAULT 0,
    total_mentions  INTEGER NOT NULL DEFAULT 0,
    tickers_ranked  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scans_window_end ON scans(window_end);

CREATE TABLE IF NOT EXISTS hype_scores (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id         INTEGER NOT NULL REFERENCES scans(id),
    ticker          TEXT NOT NULL,
    rank            INTEGER NOT NULL,
    hype_score      REAL NOT NULL,
    volume_score    REAL NOT NULL,
    sentiment_score REAL NOT NULL,
    mention_count   INTEGER NOT NULL,
    velocity        REAL NOT NULL DEFAULT 0,
    spike_ratio     REAL NOT NULL DEFAULT 0,
    keyword_score   REAL NOT NULL DEFAULT 0,
    library_score   REAL NOT NULL DEFAULT 0,
    confidence      REAL NOT NULL DEFAULT 0,
    trend           TEXT NOT NULL DEFAULT 'stable',
    platforms       TEXT NOT NULL DEFAULT '[]',
    alerted         BOOLEAN NOT NULL DEFAULT 0,
    UNIQUE(scan_id, ticker)
);

CREATE INDEX IF NOT EXISTS idx_scores_scan ON hype_scores(scan_id);
CREATE INDEX IF NOT EXISTS idx_scores_ticker ON hype_scores(ticker);
CREATE INDEX IF NOT EXISTS idx_scores_hype ON hype_scores(hype_score);
`
