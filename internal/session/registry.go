// Package session builds snake game sessions from configuration and tracks
// the sessions currently being played over SSH or WebSocket.
package session

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// ID identifies a live session.
type ID string

// Transport names how a session is connected.
type Transport string

const (
	TransportLocal     Transport = "local"
	TransportSSH       Transport = "ssh"
	TransportWebSocket Transport = "websocket"
)

// Info describes a live session.
type Info struct {
	ID        ID        `json:"id"`
	Player    string    `json:"player"`
	Transport Transport `json:"transport"`
	StartedAt time.Time `json:"started_at"`
}

var idCounter atomic.Uint64

// NewID returns a process-unique session ID for player.
func NewID(player string) ID {
	return ID(fmt.Sprintf("%s-%d-%d", player, time.Now().UnixNano(), idCounter.Add(1)))
}

// Registry tracks active sessions.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[ID]Info
}

// NewRegistry creates a new session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[ID]Info),
	}
}

// Register adds a session and returns an unregister func.
func (r *Registry) Register(info Info) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[info.ID] = info
	return func() { r.Unregister(info.ID) }
}

// Unregister removes a session from the registry.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns all active sessions, oldest first.
func (r *Registry) List() []Info {
	r.mu.RLock()
	out := make([]Info, 0, len(r.sessions))
	for _, info := range r.sessions {
		out = append(out, info)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
