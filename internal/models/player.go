package models

import "github.com/google/uuid"

// Player is one lobby member. ID is the connection identity assigned by the
// gateway when the websocket was accepted.
type Player struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Score  int       `json:"score"`
	IsHost bool      `json:"isHost"`
}

// PlayerScore is the roster projection broadcast after every answer.
type PlayerScore struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
}
