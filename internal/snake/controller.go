package snake

import (
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// DefaultInterval is the step interval used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Scheduler invokes a callback periodically. At most one schedule is active:
// Arm replaces (and invalidates) any previous one, Stop cancels it.
// Implementations deliver callbacks on the session's own execution context.
type Scheduler interface {
	Arm(interval time.Duration, fn func())
	Stop()
}

// Renderer draws a snapshot of the game. It must not retain or modify it.
type Renderer interface {
	Render(Snapshot)
}

// Logger receives storage failures. *log.Logger from charmbracelet/log
// satisfies it.
type Logger interface {
	Warn(msg interface{}, keyvals ...interface{})
}

// Result summarizes a finished game.
type Result struct {
	Score    int
	Best     int
	Length   int
	Interval time.Duration
	Duration time.Duration
	Ticks    uint64
}

// Options configures a Controller. Grid and Scheduler are required.
type Options struct {
	Grid      core.Grid
	Interval  time.Duration
	Scheduler Scheduler
	Positions *Positions    // nil seeds from the clock
	Foods     FoodSource    // nil places food with Positions
	Tracker   *ScoreTracker // nil tracks scores without persistence
	Renderer  Renderer      // optional
	Logger    Logger        // optional

	// OnGameOver is called once per finished game, after the best score
	// was persisted.
	OnGameOver func(Result)

	// Now returns the current time; nil uses time.Now.
	Now func() time.Time
}

// Controller runs one game session: it owns the game state, the lifecycle
// phase, the scheduler and the score tracker.
//
// Controller is not safe for concurrent use. All calls, including the
// scheduler callback, must come from a single execution context.
type Controller struct {
	opts      Options
	positions *Positions
	foods     FoodSource
	tracker   *ScoreTracker
	now       func() time.Time

	state     GameState
	phase     Phase
	interval  time.Duration
	tick      uint64
	startedAt time.Time
}

// NewController creates an idle session and loads the best score.
func NewController(opts Options) *Controller {
	c := &Controller{
		opts:      opts,
		positions: opts.Positions,
		foods:     opts.Foods,
		tracker:   opts.Tracker,
		now:       opts.Now,
		interval:  opts.Interval,
	}
	if c.positions == nil {
		c.positions = NewPositions(time.Now().UnixNano())
	}
	if c.foods == nil {
		c.foods = c.positions
	}
	if c.tracker == nil {
		c.tracker = NewScoreTracker(nil, "")
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}

	if err := c.tracker.LoadBest(); err != nil {
		c.warn("could not load best score", "key", c.tracker.Key(), "error", err)
	}

	c.state = c.newState()
	return c
}

// newState builds a fresh snake heading right with food placed off the body.
func (c *Controller) newState() GameState {
	grid := c.opts.Grid
	body := c.positions.InitialSnake(grid)
	return GameState{
		Grid:    grid,
		Snake:   body,
		Heading: NewHeading(core.Right),
		Food:    c.foods.RandomFoodCell(body, grid),
	}
}

// Start begins the first game. It only acts in the idle phase and reports
// whether the session started.
func (c *Controller) Start() bool {
	if c.phase != PhaseIdle {
		return false
	}
	c.begin()
	return true
}

// Restart begins a new game after game over. Score, snake, heading and food
// are reinitialized; the best score is kept.
func (c *Controller) Restart() bool {
	if c.phase != PhaseGameOver {
		return false
	}
	c.tracker.Reset()
	c.state = c.newState()
	c.tick = 0
	c.begin()
	return true
}

func (c *Controller) begin() {
	c.phase = PhaseRunning
	c.startedAt = c.now()
	c.opts.Scheduler.Arm(c.interval, c.Tick)
	c.render()
}

// Tick advances the game by one step. Ticks outside the running phase are
// ignored.
func (c *Controller) Tick() {
	if c.phase != PhaseRunning {
		return
	}

	result := Step(c.state, c.foods)
	c.state = result.State
	c.tick++

	if result.Ate && c.tracker.OnFoodEaten() {
		c.persistBest()
	}

	if result.Collided {
		c.gameOver()
	}

	c.render()
}

func (c *Controller) gameOver() {
	c.opts.Scheduler.Stop()
	c.phase = PhaseGameOver
	c.persistBest()

	if c.opts.OnGameOver != nil {
		c.opts.OnGameOver(Result{
			Score:    c.tracker.Score(),
			Best:     c.tracker.Best(),
			Length:   len(c.state.Snake),
			Interval: c.interval,
			Duration: c.now().Sub(c.startedAt),
			Ticks:    c.tick,
		})
	}
}

func (c *Controller) persistBest() {
	if err := c.tracker.PersistBest(); err != nil {
		c.warn("could not persist best score", "key", c.tracker.Key(), "error", err)
	}
}

// Turn records a directional request for the next step. Reversals are
// rejected by RequestTurn.
func (c *Controller) Turn(d core.Direction) {
	c.state.Heading.Next = RequestTurn(c.state.Heading, d)
}

// SetInterval changes the configured step interval. A running schedule keeps
// its old period until Rearm or the next Start/Restart.
func (c *Controller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.interval = d
}

// Rearm re-arms a running schedule with the configured interval.
func (c *Controller) Rearm() {
	if c.phase != PhaseRunning {
		return
	}
	c.opts.Scheduler.Arm(c.interval, c.Tick)
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Interval returns the configured step interval.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Score returns the current score.
func (c *Controller) Score() int {
	return c.tracker.Score()
}

// Best returns the best score.
func (c *Controller) Best() int {
	return c.tracker.Best()
}

// State returns a copy of the game state.
func (c *Controller) State() GameState {
	return c.state.Clone()
}

// Snapshot returns a read-only copy of the session for rendering.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Tick:     c.tick,
		Phase:    c.phase,
		Grid:     c.state.Grid,
		Snake:    c.state.Snake.Clone(),
		Food:     c.state.Food,
		Heading:  c.state.Heading.Current,
		Score:    c.tracker.Score(),
		Best:     c.tracker.Best(),
		Interval: c.interval,
	}
}

// Render pushes the current snapshot to the renderer, if any.
func (c *Controller) Render() {
	c.render()
}

func (c *Controller) render() {
	if c.opts.Renderer != nil {
		c.opts.Renderer.Render(c.Snapshot())
	}
}

func (c *Controller) warn(msg string, keyvals ...interface{}) {
	if c.opts.Logger != nil {
		c.opts.Logger.Warn(msg, keyvals...)
	}
}
