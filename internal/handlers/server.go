package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/quizwire/quizwire/internal/game"
)

// GameServer aggregates the lobby registry, the question provider and the
// connection population. One instance serves the whole process; the websocket
// handler closes over it.
type GameServer struct {
	Registry *game.Registry
	Provider game.QuestionProvider
	Conns    *ConnStore
	Logger   *logrus.Logger
}

func NewGameServer(provider game.QuestionProvider, logger *logrus.Logger) *GameServer {
	return &GameServer{
		Registry: game.NewRegistry(),
		Provider: provider,
		Conns:    NewConnStore(),
		Logger:   logger,
	}
}

// BroadcastLobbyList pushes the refreshed public lobby list to every
// connection. Called after any registry mutation that changes the public
// list: create, fresh join, leave, disconnect, deletion.
func (gs *GameServer) BroadcastLobbyList() {
	gs.Conns.Broadcast(game.NewLobbiesListUpdateEvent(gs.Registry.ListPublic()))
}
