package snake

import (
	"strconv"
	"strings"
)

// DefaultBestScoreKey is the storage slot that holds the best score.
const DefaultBestScoreKey = "best-score"

// PlayerBestScoreKey returns the best-score slot for a named player under
// base. An empty base uses DefaultBestScoreKey; an empty player shares the
// base slot.
func PlayerBestScoreKey(base, player string) string {
	if base == "" {
		base = DefaultBestScoreKey
	}
	if player == "" {
		return base
	}
	return base + ":" + player
}

// KeyValueStore is a durable string slot store.
// Get reports ok=false when the key has never been written.
// Raise atomically stores value when it is greater than the slot's integer
// value (absent or malformed counts as 0) and returns what the slot holds
// afterwards.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Raise(key string, value int) (int, error)
}

// ScoreTracker counts the current score and keeps the best score in sync
// with a KeyValueStore slot. A nil store disables persistence.
type ScoreTracker struct {
	store KeyValueStore
	key   string
	score int
	best  int
}

// NewScoreTracker creates a tracker for the given slot.
// An empty key uses DefaultBestScoreKey.
func NewScoreTracker(store KeyValueStore, key string) *ScoreTracker {
	if key == "" {
		key = DefaultBestScoreKey
	}
	return &ScoreTracker{store: store, key: key}
}

// Score returns the current session score.
func (t *ScoreTracker) Score() int {
	return t.score
}

// Best returns the best score seen so far.
func (t *ScoreTracker) Best() int {
	return t.best
}

// Key returns the storage slot name.
func (t *ScoreTracker) Key() string {
	return t.key
}

// LoadBest reads the best score from storage. A missing or malformed value
// counts as 0. The in-memory best never decreases.
func (t *ScoreTracker) LoadBest() error {
	stored, err := t.stored()
	t.best = max(t.best, stored)
	return err
}

// OnFoodEaten adds a point and raises the best score if it was beaten.
// It reports whether the best score changed.
func (t *ScoreTracker) OnFoodEaten() bool {
	t.score++
	if t.score > t.best {
		t.best = t.score
		return true
	}
	return false
}

// PersistBest raises the stored best score to the in-memory best in one
// atomic store call. If the slot already holds a higher value (another
// session beat it meanwhile) the in-memory best is raised to match.
func (t *ScoreTracker) PersistBest() error {
	if t.store == nil {
		return nil
	}
	stored, err := t.store.Raise(t.key, t.best)
	if err != nil {
		return err
	}
	t.best = max(t.best, stored)
	return nil
}

// Reset zeroes the session score. The best score is kept.
func (t *ScoreTracker) Reset() {
	t.score = 0
}

// stored returns the parsed slot value, 0 when absent or unparsable.
func (t *ScoreTracker) stored() (int, error) {
	if t.store == nil {
		return 0, nil
	}
	raw, ok, err := t.store.Get(t.key)
	if err != nil || !ok {
		return 0, err
	}
	return ParseBestScore(raw), nil
}

// ParseBestScore parses a stored decimal best score. Anything that is not a
// non-negative integer yields 0.
func ParseBestScore(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
