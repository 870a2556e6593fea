package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/quizwire/quizwire/internal/game"
	"github.com/quizwire/quizwire/internal/models"
)

// session is one client's gateway state. It is touched only by that client's
// read loop and the post-loop cleanup, so it needs no lock.
type session struct {
	srv   *GameServer
	conn  *game.Conn
	lobby *game.Lobby // lobby this client is currently a member of, if any
}

// QuizWSHandler upgrades the connection, assigns a connection identity, and
// runs the read/write pumps until the client goes away. Every request is
// answered with an ack; handler failures never tear down the connection.
func QuizWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"quiz"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "quiz" {
			c.Close(BadSubprotocolError, "client must speak the quiz subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := game.NewConn(cancel)
		gs.Conns.Add(conn)
		sess := &session{srv: gs, conn: conn}

		logger.Infof("Client %s connected from %s", conn.ID, r.RemoteAddr)
		conn.Write(game.NewWelcomeEvent(conn.ID))

		go writePump(ctx, c, conn, logger)

		readPump(ctx, c, sess, logger)

		// ---- Cleanup after readPump exits ----
		gs.Conns.Remove(conn.ID)
		sess.handleDisconnect()
		logger.Infof("Client %s disconnected", conn.ID)
	}
}

// readPump decodes inbound envelopes and dispatches them until the connection
// closes or the context is cancelled.
func readPump(ctx context.Context, c *websocket.Conn, sess *session, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				logger.Infof("Client %s: websocket closed normally", sess.conn.ID)
			} else if !strings.Contains(err.Error(), "context canceled") {
				logger.Warnf("Client %s: read error: %v", sess.conn.ID, err)
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Warnf("Client %s: ignoring non-text message type %d", sess.conn.ID, typ)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Client %s: invalid json: %v", sess.conn.ID, err)
			sess.conn.Write(failAck(ClientMessage{}, "invalid JSON payload"))
			continue
		}
		sess.dispatch(ctx, msg)
	}
}

// dispatch routes one request. A panicking handler is converted to a generic
// failure ack so a malformed or unexpected request can never kill the
// connection or the process.
func (s *session) dispatch(ctx context.Context, msg ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.srv.Logger.Errorf("Client %s: panic handling %q: %v", s.conn.ID, msg.Type, r)
			s.conn.Write(failAck(msg, "internal server error"))
		}
	}()

	switch msg.Type {
	case ReqGetLobbies:
		s.handleGetLobbies(msg)
	case ReqCreateLobby:
		s.handleCreateLobby(msg)
	case ReqJoinLobby:
		s.handleJoinLobby(msg)
	case ReqLeaveLobby:
		s.handleLeaveLobby(msg)
	case ReqStartGame:
		s.handleStartGame(ctx, msg)
	case ReqSubmitAnswer:
		s.handleSubmitAnswer(msg)
	default:
		s.conn.Write(failAck(msg, fmt.Sprintf("unknown request type: %s", msg.Type)))
	}
}

func (s *session) handleGetLobbies(msg ClientMessage) {
	ack := okAck(msg)
	ack.Lobbies = s.srv.Registry.ListPublic()
	s.conn.Write(ack)
}

func (s *session) handleCreateLobby(msg ClientMessage) {
	var req CreateLobbyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.conn.Write(failAck(msg, "malformed createLobby payload"))
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		s.conn.Write(failAck(msg, "playerName is required"))
		return
	}
	if s.lobby != nil {
		s.conn.Write(failAck(msg, "leave your current lobby first"))
		return
	}

	name := req.LobbyName
	if name == "" {
		name = fmt.Sprintf("%s's Game", req.PlayerName)
	}
	player := &models.Player{ID: s.conn.ID, Name: req.PlayerName}
	l := s.srv.Registry.Create(name, player, s.conn, game.DefaultSettings(req.Category))
	s.lobby = l

	ack := okAck(msg)
	id := l.ID
	ack.LobbyID = &id
	details := l.Details()
	ack.LobbyDetails = &details
	s.conn.Write(ack)

	s.srv.BroadcastLobbyList()
}

func (s *session) handleJoinLobby(msg ClientMessage) {
	var req JoinLobbyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.conn.Write(failAck(msg, "malformed joinLobby payload"))
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		s.conn.Write(failAck(msg, "playerName is required"))
		return
	}
	if s.lobby != nil && s.lobby.ID != req.LobbyID {
		s.conn.Write(failAck(msg, "leave your current lobby first"))
		return
	}

	l, ok := s.srv.Registry.Get(req.LobbyID)
	if !ok {
		s.conn.Write(failAck(msg, game.ErrLobbyNotFound.Error()))
		return
	}
	joined, err := l.AddPlayer(&models.Player{ID: s.conn.ID, Name: req.PlayerName}, s.conn)
	if err != nil {
		s.conn.Write(failAck(msg, err.Error()))
		return
	}
	s.lobby = l

	ack := okAck(msg)
	id := l.ID
	ack.LobbyID = &id
	details := l.Details()
	ack.LobbyDetails = &details
	ack.Reconnected = joined == nil
	s.conn.Write(ack)

	if joined != nil {
		l.Broadcast(*joined)
		s.srv.BroadcastLobbyList()
	}
}

func (s *session) handleLeaveLobby(msg ClientMessage) {
	var req LeaveLobbyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.conn.Write(failAck(msg, "malformed leaveLobby payload"))
		return
	}

	l, ok := s.srv.Registry.Get(req.LobbyID)
	if !ok {
		if s.lobby != nil && s.lobby.ID == req.LobbyID {
			s.lobby = nil
		}
		s.conn.Write(failAck(msg, game.ErrLobbyNotFound.Error()))
		return
	}

	l.RemovePlayer(s.conn.ID)
	if s.lobby != nil && s.lobby.ID == l.ID {
		s.lobby = nil
	}
	s.conn.Write(okAck(msg))

	s.srv.BroadcastLobbyList()
}

func (s *session) handleStartGame(ctx context.Context, msg ClientMessage) {
	var req StartGameRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.conn.Write(failAck(msg, "malformed startGame payload"))
		return
	}

	l, ok := s.srv.Registry.Get(req.LobbyID)
	if !ok {
		s.conn.Write(failAck(msg, game.ErrLobbyNotFound.Error()))
		return
	}
	if err := l.Start(ctx, s.conn.ID, s.srv.Provider); err != nil {
		s.srv.Logger.Warnf("Client %s: failed to start lobby %s: %v", s.conn.ID, l.ID, err)
		s.conn.Write(failAck(msg, err.Error()))
		return
	}
	s.conn.Write(okAck(msg))
}

func (s *session) handleSubmitAnswer(msg ClientMessage) {
	var req SubmitAnswerRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.conn.Write(failAck(msg, "malformed submitAnswer payload"))
		return
	}

	l, ok := s.srv.Registry.Get(req.LobbyID)
	if !ok {
		s.conn.Write(failAck(msg, game.ErrGameNotActive.Error()))
		return
	}
	if err := l.SubmitAnswer(s.conn.ID, req.QuestionID, req.AnswerIndex); err != nil {
		s.conn.Write(failAck(msg, err.Error()))
		return
	}
	s.conn.Write(okAck(msg))
}

// handleDisconnect runs the leave-equivalent cleanup once the read loop is
// gone. Lobby teardown (and deletion when the roster empties) happens inside
// RemovePlayer.
func (s *session) handleDisconnect() {
	if s.lobby == nil {
		return
	}
	if s.lobby.RemovePlayer(s.conn.ID) {
		s.srv.BroadcastLobbyList()
	}
	s.lobby = nil
}

// writePump drains the connection's outbox onto the websocket and keeps the
// connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *game.Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("Client %s: failed to marshal %T: %v", conn.ID, ev, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Client %s: websocket write failed: %v", conn.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("Client %s: ping failed, assuming disconnect: %v", conn.ID, err)
				return
			}
		}
	}
}
