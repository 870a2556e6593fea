package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/quizwire/quizwire/internal/game"
)

// Inbound request names. Anything else gets a failure ack.
const (
	ReqGetLobbies   = "getLobbies"
	ReqCreateLobby  = "createLobby"
	ReqJoinLobby    = "joinLobby"
	ReqLeaveLobby   = "leaveLobby"
	ReqStartGame    = "startGame"
	ReqSubmitAnswer = "submitAnswer"
)

// ClientMessage is the inbound envelope. Seq is a client-chosen correlation
// number echoed in the matching Ack; Data carries the request payload decoded
// per Type before any state-machine logic runs.
type ClientMessage struct {
	Type string          `json:"type"`
	Seq  int64           `json:"seq,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type CreateLobbyRequest struct {
	PlayerName string `json:"playerName"`
	LobbyName  string `json:"lobbyName,omitempty"`
	Category   string `json:"category,omitempty"`
}

type JoinLobbyRequest struct {
	LobbyID    uuid.UUID `json:"lobbyId"`
	PlayerName string    `json:"playerName"`
}

type LeaveLobbyRequest struct {
	LobbyID uuid.UUID `json:"lobbyId"`
}

type StartGameRequest struct {
	LobbyID uuid.UUID `json:"lobbyId"`
}

type SubmitAnswerRequest struct {
	LobbyID     uuid.UUID `json:"lobbyId"`
	QuestionID  uuid.UUID `json:"questionId"`
	AnswerIndex int       `json:"answerIndex"`
}

// Ack is the response envelope for every request. Optional fields are set per
// request type: Lobbies for getLobbies, LobbyID/LobbyDetails for create and
// join, Reconnected for idempotent rejoins.
type Ack struct {
	Type    string `json:"type"` // always "ack"
	For     string `json:"for"`
	Seq     int64  `json:"seq,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	LobbyID      *uuid.UUID          `json:"lobbyId,omitempty"`
	LobbyDetails *game.LobbyDetails  `json:"lobbyDetails,omitempty"`
	Reconnected  bool                `json:"reconnected,omitempty"`
	Lobbies      []game.LobbySummary `json:"lobbies,omitempty"`
}

func okAck(msg ClientMessage) Ack {
	return Ack{Type: "ack", For: msg.Type, Seq: msg.Seq, Success: true}
}

func failAck(msg ClientMessage, reason string) Ack {
	return Ack{Type: "ack", For: msg.Type, Seq: msg.Seq, Success: false, Message: reason}
}
