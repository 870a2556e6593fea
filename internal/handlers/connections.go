package handlers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/quizwire/quizwire/internal/game"
)

// ConnStore tracks every live connection, lobby member or not, so registry
// changes can be announced to the whole population.
type ConnStore struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*game.Conn
}

func NewConnStore() *ConnStore {
	return &ConnStore{
		conns: make(map[uuid.UUID]*game.Conn),
	}
}

func (s *ConnStore) Add(c *game.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[c.ID] = c
}

func (s *ConnStore) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, id)
}

func (s *ConnStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Broadcast fans an event out to every connection. Writes never block.
func (s *ConnStore) Broadcast(ev interface{}) {
	s.mu.Lock()
	conns := make([]*game.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Write(ev)
	}
}
