package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// memStore is an in-memory KeyValueStore with injectable failures.
type memStore struct {
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memStore) Raise(key string, value int) (int, error) {
	if m.setErr != nil {
		return 0, m.setErr
	}
	if cur := ParseBestScore(m.data[key]); cur >= value {
		return cur, nil
	}
	m.data[key] = fmt.Sprint(value)
	m.sets++
	return value, nil
}

// reopen simulates restarting the persistence layer: only the data survives.
func (m *memStore) reopen() *memStore {
	fresh := newMemStore()
	for k, v := range m.data {
		fresh.data[k] = v
	}
	return fresh
}

// queuedFood hands out food cells in order, then a fixed fallback.
type queuedFood struct {
	cells    []core.Cell
	fallback core.Cell
}

func (q *queuedFood) RandomFoodCell(_ []core.Cell, _ core.Grid) core.Cell {
	if len(q.cells) == 0 {
		return q.fallback
	}
	c := q.cells[0]
	q.cells = q.cells[1:]
	return c
}

// aheadFood always places food directly in front of a right-moving head.
type aheadFood struct{}

func (aheadFood) RandomFoodCell(occupied []core.Cell, _ core.Grid) core.Cell {
	return occupied[0].Add(core.Right)
}

// recordingRenderer keeps every snapshot it is given.
type recordingRenderer struct {
	frames []Snapshot
}

func (r *recordingRenderer) Render(s Snapshot) {
	r.frames = append(r.frames, s)
}

func (r *recordingRenderer) last() Snapshot {
	return r.frames[len(r.frames)-1]
}

// warnLogger records warning messages.
type warnLogger struct {
	warnings []string
}

func (l *warnLogger) Warn(msg interface{}, _ ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprint(msg))
}

func cells(pairs ...int) Snake {
	s := make(Snake, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		s = append(s, core.Cell{X: pairs[i], Y: pairs[i+1]})
	}
	return s
}

func hasDuplicates(s Snake) bool {
	seen := make(map[core.Cell]bool, len(s))
	for _, c := range s {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}
