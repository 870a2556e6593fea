package game

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/quizwire/quizwire/internal/models"
)

// Registry owns every live Lobby. Lobbies exist only here; deletion happens
// through each lobby's OnEmpty callback when its last player departs.
type Registry struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*Lobby
}

func NewRegistry() *Registry {
	return &Registry{
		lobbies: make(map[uuid.UUID]*Lobby),
	}
}

// Create builds a waiting lobby with the given player as host, wires its
// OnEmpty cleanup, and registers it.
func (r *Registry) Create(name string, host *models.Player, conn *Conn, settings Settings) *Lobby {
	l := NewLobby(name, host, conn, settings)
	l.OnEmpty = func(id uuid.UUID) {
		r.Delete(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lobbies[l.ID] = l
	log.Printf("Registry: lobby %s (%q) created by %s", l.ID, l.Name, host.Name)
	return l
}

func (r *Registry) Get(id uuid.UUID) (*Lobby, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lobbies[id]
	return l, ok
}

func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lobbies[id]; ok {
		delete(r.lobbies, id)
		log.Printf("Registry: lobby %s deleted", id)
	}
}

// ListPublic returns summaries of joinable (still waiting) lobbies. Order is
// a snapshot of map iteration and deliberately unspecified.
func (r *Registry) ListPublic() []LobbySummary {
	r.mu.Lock()
	snapshot := make([]*Lobby, 0, len(r.lobbies))
	for _, l := range r.lobbies {
		snapshot = append(snapshot, l)
	}
	r.mu.Unlock()

	out := make([]LobbySummary, 0, len(snapshot))
	for _, l := range snapshot {
		s := l.Summary()
		if s.Status == StatusWaiting {
			out = append(out, s)
		}
	}
	return out
}
