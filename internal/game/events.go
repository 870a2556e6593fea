package game

import (
	"github.com/google/uuid"

	"github.com/quizwire/quizwire/internal/models"
)

// Outbound event names. Each name has exactly one payload struct below; the
// gateway marshals whatever lands on a connection's outbox, so these structs
// are the full wire contract for server-initiated traffic.
const (
	EventWelcome           = "welcome"
	EventLobbiesListUpdate = "lobbiesListUpdate"
	EventPlayerJoined      = "playerJoined"
	EventPlayerLeft        = "playerLeft"
	EventNewHost           = "newHost"
	EventGameStarted       = "gameStarted"
	EventNewQuestion       = "newQuestion"
	EventAnswerFeedback    = "answerFeedback"
	EventScoreUpdate       = "scoreUpdate"
	EventRoundEnd          = "roundEnd"
	EventGameOver          = "gameOver"
)

// HostRef identifies the current host within lobby payloads.
type HostRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// LobbyDetails is the member-facing snapshot of a lobby. Question contents are
// deliberately absent; questions travel only through NewQuestionEvent with the
// answer key stripped.
type LobbyDetails struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Host                 HostRef         `json:"host"`
	Players              []models.Player `json:"players"`
	Settings             Settings        `json:"settings"`
	Status               Status          `json:"status"`
	CurrentQuestionIndex int             `json:"currentQuestionIndex"`
}

// LobbySummary is the discovery-listing projection of a waiting lobby.
type LobbySummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	HostName    string    `json:"hostName"`
	PlayerCount int       `json:"playerCount"`
	MaxPlayers  int       `json:"maxPlayers"`
	Category    string    `json:"category"`
	Status      Status    `json:"status"`
}

type WelcomeEvent struct {
	Type     string    `json:"type"`
	PlayerID uuid.UUID `json:"playerId"`
}

func NewWelcomeEvent(id uuid.UUID) WelcomeEvent {
	return WelcomeEvent{Type: EventWelcome, PlayerID: id}
}

type LobbiesListUpdateEvent struct {
	Type    string         `json:"type"`
	Lobbies []LobbySummary `json:"lobbies"`
}

func NewLobbiesListUpdateEvent(lobbies []LobbySummary) LobbiesListUpdateEvent {
	return LobbiesListUpdateEvent{Type: EventLobbiesListUpdate, Lobbies: lobbies}
}

type PlayerJoinedEvent struct {
	Type         string        `json:"type"`
	Player       models.Player `json:"player"`
	LobbyDetails LobbyDetails  `json:"lobbyDetails"`
}

type PlayerLeftEvent struct {
	Type         string       `json:"type"`
	PlayerID     uuid.UUID    `json:"playerId"`
	PlayerName   string       `json:"playerName"`
	LobbyDetails LobbyDetails `json:"lobbyDetails"`
}

type NewHostEvent struct {
	Type         string       `json:"type"`
	Host         HostRef      `json:"host"`
	LobbyDetails LobbyDetails `json:"lobbyDetails"`
}

type GameStartedEvent struct {
	Type         string          `json:"type"`
	LobbyDetails LobbyDetails    `json:"lobbyDetails"`
	Players      []models.Player `json:"players"`
}

type NewQuestionEvent struct {
	Type           string                `json:"type"`
	Question       models.PublicQuestion `json:"question"`
	QuestionNumber int                   `json:"questionNumber"`
	TotalQuestions int                   `json:"totalQuestions"`
	TimeLimit      int                   `json:"timeLimit"`
	Players        []models.Player       `json:"players"`
}

type AnswerFeedbackEvent struct {
	Type               string `json:"type"`
	Correct            bool   `json:"correct"`
	CorrectAnswerIndex int    `json:"correctAnswerIndex"`
	ScoreEarned        int    `json:"scoreEarned"`
	CurrentScore       int    `json:"currentScore"`
}

type ScoreUpdateEvent struct {
	Type    string               `json:"type"`
	Players []models.PlayerScore `json:"players"`
}

type RoundEndEvent struct {
	Type               string `json:"type"`
	CorrectAnswerIndex int    `json:"correctAnswerIndex"`
}

type GameOverEvent struct {
	Type          string          `json:"type"`
	Players       []models.Player `json:"players"`
	LobbySettings Settings        `json:"lobbySettings"`
}
