package web

import (
	"embed"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

//go:embed static/index.html
var staticFS embed.FS

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	guestPlayer       = "guest"
)

var playerPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// playerFrom reads the player query parameter. Missing names fall back to
// guestPlayer; invalid and reserved names are rejected.
func playerFrom(r *http.Request) (string, bool) {
	p := r.URL.Query().Get("player")
	if p == "" {
		return guestPlayer, true
	}
	return p, playerPattern.MatchString(p) && !session.ReservedPlayer(p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

type bestResponse struct {
	Player string `json:"player"`
	Key    string `json:"key"`
	Best   int    `json:"best"`
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFrom(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_player")
		return
	}

	key := s.bestKey(player)
	best := 0
	if s.factory.Store != nil {
		raw, found, err := s.factory.Store.Get(key)
		if err != nil {
			s.logger.Warn("could not read best score", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "storage_failed")
			return
		}
		if found {
			best = snake.ParseBestScore(raw)
		}
	}

	writeJSON(w, http.StatusOK, bestResponse{Player: player, Key: key, Best: best})
}

type gameResponse struct {
	ID         int64     `json:"id"`
	Player     string    `json:"player"`
	Score      int       `json:"score"`
	Length     int       `json:"length"`
	IntervalMS int64     `json:"interval_ms"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func toGameResponses(games []storage.GameRecord) []gameResponse {
	out := make([]gameResponse, len(games))
	for i, g := range games {
		out[i] = gameResponse{
			ID:         g.ID,
			Player:     g.Player,
			Score:      g.Score,
			Length:     g.Length,
			IntervalMS: g.Interval.Milliseconds(),
			DurationMS: g.Duration.Milliseconds(),
			CreatedAt:  g.CreatedAt,
		}
	}
	return out
}

// handleScores lists the top games, or the recent games of one player when
// the player parameter is set.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	limit := defaultScoreLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxScoreLimit)
	}

	if s.scores == nil {
		writeJSON(w, http.StatusOK, []gameResponse{})
		return
	}

	var (
		games []storage.GameRecord
		err   error
	)
	if r.URL.Query().Has("player") {
		player, ok := playerFrom(r)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_player")
			return
		}
		games, err = s.scores.RecentGames(player, limit)
	} else {
		games, err = s.scores.TopGames(limit)
	}
	if err != nil {
		s.logger.Warn("could not list games", "error", err)
		writeError(w, http.StatusInternalServerError, "storage_failed")
		return
	}

	writeJSON(w, http.StatusOK, toGameResponses(games))
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.List())
}
