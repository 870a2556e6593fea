package game

import "errors"

// State-conflict and validation errors surfaced to clients through failure
// acks. The gateway reports err.Error() verbatim, so messages are phrased for
// players, not operators.
var (
	ErrLobbyNotFound    = errors.New("lobby not found")
	ErrLobbyFull        = errors.New("lobby is full")
	ErrAlreadyStarted   = errors.New("game has already started or finished")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotWaiting       = errors.New("game is already in progress or finished")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrNoQuestions      = errors.New("no questions found for category")
	ErrGameNotActive    = errors.New("game not active")
	ErrQuestionMismatch = errors.New("question mismatch or not found")
	ErrPlayerNotFound   = errors.New("player not found in lobby")
	ErrAlreadyAnswered  = errors.New("you have already answered this question")
)
