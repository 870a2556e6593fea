package game

import (
	"log"

	"github.com/google/uuid"
)

// Conn is a single client's presence on the server. The ID doubles as the
// player identity inside any lobby the client joins. Events pushed onto
// OutChan are drained by the gateway's write pump.
type Conn struct {
	ID      uuid.UUID
	Cancel  func()
	OutChan chan interface{}
}

// NewConn allocates a connection with a fresh identity and a buffered outbox.
func NewConn(cancel func()) *Conn {
	return &Conn{
		ID:      uuid.New(),
		Cancel:  cancel,
		OutChan: make(chan interface{}, 32),
	}
}

// Write pushes an event onto the outbox non-blockingly. A full or abandoned
// outbox drops the event rather than stalling lobby logic.
func (c *Conn) Write(ev interface{}) {
	select {
	case c.OutChan <- ev:
	default:
		log.Printf("Conn %s: outbox full or closed, dropped %T", c.ID, ev)
	}
}
