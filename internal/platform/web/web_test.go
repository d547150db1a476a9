package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

type testEnv struct {
	srv   *Server
	store *storage.Store
	ts    *httptest.Server
}

// newTestEnv serves a 10x10 board with a fast preset (5ms) and a slow one (1s).
func newTestEnv(t *testing.T, allowedOrigins ...string) *testEnv {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.Default()
	cfg.Board = config.BoardConfig{CanvasWidth: 100, CanvasHeight: 100, CellSize: 10}
	cfg.Difficulty = config.DifficultyConfig{
		Default: "fast",
		Presets: map[string]int{"fast": 5, "slow": 1000},
	}

	logger := log.New(io.Discard)
	srv := New(Options{
		Factory: &session.Factory{
			Config:  cfg,
			Store:   store,
			History: store,
			Logger:  logger,
			Seed:    1,
		},
		Scores:         store,
		Logger:         logger,
		AllowedOrigins: allowedOrigins,
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &testEnv{srv: srv, store: store, ts: ts}
}

func (e *testEnv) get(t *testing.T, path string, into any) *http.Response {
	t.Helper()
	resp, err := http.Get(e.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
	}
	return resp
}

func (e *testEnv) dial(t *testing.T, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.ts.URL, "http") + "/ws" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func (e *testEnv) play(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	conn, _, err := e.dial(t, query, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads server messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() failed: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func isFrame(phase string) func(serverMessage) bool {
	return func(m serverMessage) bool {
		return m.Type == "frame" && m.Frame.Phase == phase
	}
}

func isError(m serverMessage) bool { return m.Type == "error" }

func send(t *testing.T, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	resp := env.get(t, "/healthz", &body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body.Status != "ok" || body.Sessions != 0 {
		t.Errorf("body = %+v", body)
	}
}

func TestBest(t *testing.T) {
	env := newTestEnv(t)
	env.store.Set("best-score:alice", "12")

	var got bestResponse
	env.get(t, "/api/best?player=alice", &got)
	if got.Best != 12 || got.Key != "best-score:alice" || got.Player != "alice" {
		t.Errorf("alice = %+v", got)
	}

	env.get(t, "/api/best", &got)
	if got.Best != 0 || got.Player != guestPlayer {
		t.Errorf("guest = %+v", got)
	}

	if resp := env.get(t, "/api/best?player=bad%20name", nil); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid player status = %d, want 400", resp.StatusCode)
	}
}

func TestScores(t *testing.T) {
	env := newTestEnv(t)
	for _, g := range []storage.GameRecord{
		{Player: "p", Score: 3, Interval: 100 * time.Millisecond},
		{Player: "q", Score: 8},
		{Player: "p", Score: 5},
	} {
		if _, err := env.store.SaveGame(g); err != nil {
			t.Fatalf("SaveGame() failed: %v", err)
		}
	}

	var top []gameResponse
	env.get(t, "/api/scores?limit=2", &top)
	if len(top) != 2 || top[0].Score != 8 || top[1].Score != 5 {
		t.Errorf("top = %+v", top)
	}

	var recent []gameResponse
	env.get(t, "/api/scores?player=p", &recent)
	if len(recent) != 2 || recent[0].Score != 5 || recent[1].Score != 3 {
		t.Errorf("recent = %+v", recent)
	}
	if recent[1].IntervalMS != 100 {
		t.Errorf("interval_ms = %d, want 100", recent[1].IntervalMS)
	}

	for _, q := range []string{"?limit=abc", "?limit=0", "?player=%21%21"} {
		if resp := env.get(t, "/api/scores"+q, nil); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("/api/scores%s status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestNotFoundAndIndex(t *testing.T) {
	env := newTestEnv(t)

	var body map[string]string
	resp := env.get(t, "/api/nope", &body)
	if resp.StatusCode != http.StatusNotFound || body["error"] != "not_found" {
		t.Errorf("404 = %d %v", resp.StatusCode, body)
	}

	resp, err := http.Get(env.ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), "<canvas") {
		t.Error("index page should contain the game canvas")
	}
}

func TestPlayToGameOver(t *testing.T) {
	env := newTestEnv(t)
	conn := env.play(t, "?player=alice")

	cfg := readUntil(t, conn, func(m serverMessage) bool { return m.Type == "config" })
	if cfg.Config.Width != 10 || cfg.Config.Height != 10 || cfg.Config.Preset != "fast" {
		t.Errorf("config = %+v", cfg.Config)
	}
	if len(cfg.Config.Presets) != 2 || cfg.Config.Presets[0].Name != "slow" {
		t.Errorf("presets = %+v, want slow first", cfg.Config.Presets)
	}

	idle := readUntil(t, conn, isFrame("idle"))
	if len(idle.Frame.Snake) != 3 {
		t.Errorf("initial snake length = %d", len(idle.Frame.Snake))
	}
	if env.srv.sessions.Count() != 1 {
		t.Errorf("sessions = %d, want 1", env.srv.sessions.Count())
	}

	send(t, conn, clientMessage{Type: "start"})
	readUntil(t, conn, isFrame("running"))
	over := readUntil(t, conn, isFrame("game_over"))

	games, err := env.store.RecentGames("alice", 10)
	if err != nil || len(games) != 1 {
		t.Fatalf("RecentGames() = %v, %v; want one game", games, err)
	}
	if games[0].Score != over.Frame.Score {
		t.Errorf("recorded score %d, frame score %d", games[0].Score, over.Frame.Score)
	}

	send(t, conn, clientMessage{Type: "restart"})
	again := readUntil(t, conn, isFrame("running"))
	if again.Frame.Score != 0 {
		t.Errorf("score after restart = %d", again.Frame.Score)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for env.srv.sessions.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if env.srv.sessions.Count() != 0 {
		t.Error("session not unregistered after close")
	}
}

func TestPlayDifficulty(t *testing.T) {
	env := newTestEnv(t)
	conn := env.play(t, "")
	readUntil(t, conn, isFrame("idle"))

	send(t, conn, clientMessage{Type: "difficulty", Preset: "slow"})
	f := readUntil(t, conn, isFrame("idle"))
	if f.Frame.IntervalMS != 1000 || f.Frame.Preset != "slow" {
		t.Errorf("frame after difficulty = %+v", f.Frame)
	}

	send(t, conn, clientMessage{Type: "difficulty", Preset: "bogus"})
	readUntil(t, conn, isError)

	send(t, conn, clientMessage{Type: "start"})
	readUntil(t, conn, isFrame("running"))
	send(t, conn, clientMessage{Type: "difficulty", Preset: "fast"})
	msg := readUntil(t, conn, isError)
	if !strings.Contains(msg.Error, "between games") {
		t.Errorf("error = %q", msg.Error)
	}
}

func TestPlayTurn(t *testing.T) {
	env := newTestEnv(t)
	conn := env.play(t, "?difficulty=slow")
	idle := readUntil(t, conn, isFrame("idle"))
	head := idle.Frame.Snake[0]

	send(t, conn, clientMessage{Type: "turn", Direction: "sideways"})
	send(t, conn, clientMessage{Type: "turn", Direction: "up"})
	send(t, conn, clientMessage{Type: "start"})

	f := readUntil(t, conn, func(m serverMessage) bool {
		return m.Type == "frame" && m.Frame.Tick == 1
	})
	if got := f.Frame.Snake[0]; got.X != head.X || got.Y != head.Y-1 {
		t.Errorf("head = %+v, want %+v moved up", got, head)
	}
	if f.Frame.Heading != "up" {
		t.Errorf("heading = %q", f.Frame.Heading)
	}
}

func TestPlayBadInput(t *testing.T) {
	env := newTestEnv(t)
	conn := env.play(t, "")
	readUntil(t, conn, isFrame("idle"))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	msg := readUntil(t, conn, isError)
	if msg.Error != "bad_json" {
		t.Errorf("error = %q, want bad_json", msg.Error)
	}

	send(t, conn, clientMessage{Type: "dance"})
	readUntil(t, conn, isError)

	// The session survives bad input.
	send(t, conn, clientMessage{Type: "start"})
	readUntil(t, conn, isFrame("running"))
}

func TestPlayRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)

	_, resp, err := env.dial(t, "?difficulty=nightmare", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown difficulty: err %v resp %v", err, resp)
	}

	_, resp, err = env.dial(t, "?player=no%20spaces", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid player: err %v resp %v", err, resp)
	}

	// "local" names games played in a terminal and shares the base slot.
	_, resp, err = env.dial(t, "?player=local", nil)
	if err == nil || resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("reserved player: err %v resp %v", err, resp)
	}
}

func TestPlayOriginPolicy(t *testing.T) {
	env := newTestEnv(t, "http://good.example")

	_, resp, err := env.dial(t, "", http.Header{"Origin": {"http://evil.example"}})
	if err == nil || resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign origin: err %v resp %v", err, resp)
	}

	conn, _, err := env.dial(t, "", http.Header{"Origin": {"http://good.example"}})
	if err != nil {
		t.Fatalf("allowed origin rejected: %v", err)
	}
	conn.Close()
}
