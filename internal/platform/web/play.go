package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/ticker"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
)

// clientMessage is sent by the browser.
type clientMessage struct {
	Type      string `json:"type"` // start | restart | turn | difficulty
	Direction string `json:"direction,omitempty"`
	Preset    string `json:"preset,omitempty"`
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type frameMessage struct {
	Tick       uint64  `json:"tick"`
	Phase      string  `json:"phase"`
	Snake      []point `json:"snake"`
	Food       point   `json:"food"`
	Heading    string  `json:"heading"`
	Score      int     `json:"score"`
	Best       int     `json:"best"`
	IntervalMS int64   `json:"interval_ms"`
	Preset     string  `json:"preset"`
}

type presetInfo struct {
	Name       string `json:"name"`
	IntervalMS int64  `json:"interval_ms"`
}

type configMessage struct {
	Player   string       `json:"player"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	CellSize int          `json:"cell_size"`
	Presets  []presetInfo `json:"presets"`
	Preset   string       `json:"preset"`
}

// serverMessage is sent to the browser.
type serverMessage struct {
	Type   string         `json:"type"` // config | frame | error
	Config *configMessage `json:"config,omitempty"`
	Frame  *frameMessage  `json:"frame,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// frameRenderer keeps the latest snapshot until the session loop flushes it.
type frameRenderer struct {
	pending *snake.Snapshot
}

func (f *frameRenderer) Render(s snake.Snapshot) {
	f.pending = &s
}

func (f *frameRenderer) take() *snake.Snapshot {
	s := f.pending
	f.pending = nil
	return s
}

// handlePlay upgrades to a WebSocket and runs one game session on it.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	player, ok := playerFrom(r)
	if !ok {
		http.Error(w, "invalid player name", http.StatusBadRequest)
		return
	}
	preset := config.ParsePreset(r.URL.Query().Get("difficulty"))
	if preset == "" {
		preset = config.Preset(s.factory.Config.Difficulty.Default)
	}
	if _, err := s.factory.Config.IntervalFor(preset); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	sched := ticker.NewRealtime()
	frames := &frameRenderer{}
	ctrl, err := s.factory.New(session.Game{
		Player:    player,
		Preset:    preset,
		Scheduler: sched,
		Renderer:  frames,
	})
	if err != nil {
		s.logger.Error("cannot create game", "player", player, "error", err)
		return
	}
	ctrl.Render()

	unregister := s.sessions.Register(session.Info{
		ID:        session.NewID(player),
		Player:    player,
		Transport: session.TransportWebSocket,
		StartedAt: time.Now(),
	})
	defer unregister()

	ps := &playSession{
		conn:   conn,
		ctrl:   ctrl,
		sched:  sched,
		frames: frames,
		cfg:    s.factory.Config,
		preset: preset,
		player: player,
		logger: s.logger,
	}

	s.logger.Info("websocket session started", "player", player, "remote", r.RemoteAddr)
	err = ps.run(r.Context())
	s.logger.Info("websocket session ended", "player", player, "reason", closeReason(err))
}

// closeReason describes why a session loop ended.
func closeReason(err error) string {
	switch {
	case err == nil:
		return "done"
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		return "client closed"
	case errors.Is(err, context.Canceled):
		return "server shutdown"
	default:
		return err.Error()
	}
}

// playSession owns one connection. The controller, the ticker and all
// writes are confined to the goroutine running run; a separate reader
// goroutine only forwards decoded messages.
type playSession struct {
	conn   *websocket.Conn
	ctrl   *snake.Controller
	sched  *ticker.Realtime
	frames *frameRenderer
	cfg    config.Config
	preset config.Preset
	player string
	logger *log.Logger
}

type readResult struct {
	msg clientMessage
	err error // decode error; the connection is still usable
}

func (p *playSession) run(ctx context.Context) error {
	defer p.sched.Stop()

	inputs := make(chan readResult)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go p.readLoop(inputs, readErr, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := p.write(serverMessage{Type: "config", Config: p.configMessage()}); err != nil {
		return err
	}
	if err := p.flush(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			return err

		case in := <-inputs:
			if in.err != nil {
				if err := p.write(serverMessage{Type: "error", Error: "bad_json"}); err != nil {
					return err
				}
				continue
			}
			if err := p.handle(in.msg); err != nil {
				return err
			}

		case <-p.sched.C():
			p.sched.Fire()

		case <-ping.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}

		if err := p.flush(); err != nil {
			return err
		}
	}
}

// readLoop decodes client messages until the connection fails.
func (p *playSession) readLoop(inputs chan<- readResult, readErr chan<- error, done <-chan struct{}) {
	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}

		var res readResult
		if err := json.Unmarshal(data, &res.msg); err != nil {
			res.err = err
		}

		select {
		case inputs <- res:
		case <-done:
			return
		}
	}
}

// handle applies one client command. Unknown directions are ignored.
func (p *playSession) handle(msg clientMessage) error {
	switch msg.Type {
	case "start":
		p.ctrl.Start()
	case "restart":
		p.ctrl.Restart()
	case "turn":
		if d, ok := core.ParseDirection(msg.Direction); ok {
			p.ctrl.Turn(d)
		}
	case "difficulty":
		return p.setPreset(config.ParsePreset(msg.Preset))
	default:
		return p.write(serverMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
	return nil
}

// setPreset changes the difficulty for the next game. Like the start
// controls, it is only available between games.
func (p *playSession) setPreset(preset config.Preset) error {
	if p.ctrl.Phase() == snake.PhaseRunning {
		return p.write(serverMessage{Type: "error", Error: "difficulty can only change between games"})
	}
	interval, err := p.cfg.IntervalFor(preset)
	if err != nil {
		return p.write(serverMessage{Type: "error", Error: err.Error()})
	}
	p.preset = preset
	p.ctrl.SetInterval(interval)
	p.ctrl.Render()
	return nil
}

// flush sends the pending frame, if any.
func (p *playSession) flush() error {
	snap := p.frames.take()
	if snap == nil {
		return nil
	}
	return p.write(serverMessage{Type: "frame", Frame: p.frameMessage(*snap)})
}

func (p *playSession) write(msg serverMessage) error {
	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(msg)
}

func (p *playSession) frameMessage(s snake.Snapshot) *frameMessage {
	body := make([]point, len(s.Snake))
	for i, c := range s.Snake {
		body[i] = point{X: c.X, Y: c.Y}
	}
	return &frameMessage{
		Tick:       s.Tick,
		Phase:      s.Phase.String(),
		Snake:      body,
		Food:       point{X: s.Food.X, Y: s.Food.Y},
		Heading:    s.Heading.String(),
		Score:      s.Score,
		Best:       s.Best,
		IntervalMS: s.Interval.Milliseconds(),
		Preset:     string(p.preset),
	}
}

func (p *playSession) configMessage() *configMessage {
	grid := p.cfg.Board.Grid()
	names := p.cfg.PresetNames()
	presets := make([]presetInfo, 0, len(names))
	for _, name := range names {
		iv, err := p.cfg.IntervalFor(name)
		if err != nil {
			continue
		}
		presets = append(presets, presetInfo{Name: string(name), IntervalMS: iv.Milliseconds()})
	}
	return &configMessage{
		Player:   p.player,
		Width:    grid.Width,
		Height:   grid.Height,
		CellSize: p.cfg.Board.CellSize,
		Presets:  presets,
		Preset:   string(p.preset),
	}
}
