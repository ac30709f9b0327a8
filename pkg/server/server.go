package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/elonfeng/tickerpulse/internal/config"
	"github.com/elonfeng/tickerpulse/internal/scheduler"
	"github.com/elonfeng/tickerpulse/internal/store"
	"github.com/elonfeng/tickerpulse/pkg/hype"
	"github.com/elonfeng/tickerpulse/pkg/ticker"
)

// Server provides the HTTP API.
type Server struct {
	store store.Store
	sched *scheduler.Scheduler
	cfg   *config.Config
	port  int
}

// New creates a new HTTP server.
func New(s store.Store, sched *scheduler.Scheduler, cfg *config.Config, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		store: s,
		sched: sched,
		cfg:   cfg,
		port:  port,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("tickerpulse server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/hype", s.handleHype)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/scan", s.handleScan)
	mux.HandleFunc("/api/v1/config", s.handleConfig)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHype(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	scan, err := s.store.LatestScan(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if scan == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"scan":  nil,
			"data":  []store.Score{},
			"count": 0,
		})
		return
	}

	scores, err := s.store.ScanScores(r.Context(), scan.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// Summary describes the whole scan, not just the rows that survive
	// the query filters below.
	summary := summaryOf(scores)

	if m := r.URL.Query().Get("min_score"); m != "" {
		if min, err := strconv.ParseFloat(m, 64); err == nil {
			kept := scores[:0]
			for _, sc := range scores {
				if sc.HypeScore >= min {
					kept = append(kept, sc)
				}
			}
			scores = kept
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n >= 0 && n < len(scores) {
			scores = scores[:n]
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scan":    scan,
		"data":    scores,
		"count":   len(scores),
		"summary": summary,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	symbol := ticker.Normalize(r.URL.Query().Get("ticker"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ticker parameter required"})
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	points, err := s.store.TickerHistory(r.Context(), symbol, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticker": symbol,
		"data":   points,
		"count":  len(points),
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	scan, scores, err := s.sched.Scan(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scan":    scan,
		"data":    scores,
		"count":   len(scores),
		"summary": summaryOf(scores),
	})
}

// handleConfig exposes the non-secret runtime configuration. Credentials
// and webhook URLs never appear here.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schedule": map[string]any{
			"scan_interval": s.cfg.Schedule.ScanInterval,
			"window":        s.cfg.Schedule.Window,
		},
		"scoring": map[string]any{
			"volume_weight":            s.cfg.Scoring.VolumeWeight,
			"sentiment_weight":         s.cfg.Scoring.SentimentWeight,
			"min_mentions":             s.cfg.Scoring.MinMentions,
			"top_n":                    s.cfg.Scoring.TopN,
			"recency_boost":            s.cfg.Scoring.RecencyBoost,
			"cross_platform_bonus":     s.cfg.Scoring.CrossPlatformBonus,
			"min_sentiment_confidence": s.cfg.Scoring.MinSentimentConfidence,
		},
		"sources": map[string]bool{
			"twitter":    s.cfg.Sources.Twitter.Enabled,
			"reddit":     s.cfg.Sources.Reddit.Enabled,
			"stocktwits": s.cfg.Sources.StockTwits.Enabled,
		},
		"alerts": map[string]any{
			"min_score": s.cfg.Alerts.MinScore,
			"slack":     s.cfg.Alerts.Slack.Enabled,
			"discord":   s.cfg.Alerts.Discord.Enabled,
			"webhook":   s.cfg.Alerts.Webhook.Enabled,
		},
	})
}

// summaryOf derives the headline stats object for an ordered score slice.
func summaryOf(scores []store.Score) hype.Summary {
	s := hype.Summary{TickersAnalyzed: len(scores)}
	if len(scores) == 0 {
		return s
	}

	var total float64
	for _, sc := range scores {
		s.TotalMentions += sc.MentionCount
		total += sc.HypeScore
	}
	s.AverageHypeScore = total / float64(len(scores))
	s.TopTicker = scores[0].Ticker
	return s
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
