// internal/handlers/ws_test.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quizwire/quizwire/internal/models"
)

type stubProvider struct {
	questions []*models.Question
}

func (s *stubProvider) Find(ctx context.Context, category string, limit int) ([]*models.Question, error) {
	return s.questions, nil
}

func makeQuestions(n int) []*models.Question {
	qs := make([]*models.Question, n)
	for i := range qs {
		qs[i] = &models.Question{
			ID:                 uuid.New(),
			Text:               fmt.Sprintf("question %d", i),
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: 0,
			Category:           "General Knowledge",
			Difficulty:         "easy",
		}
	}
	return qs
}

func newTestServer(t *testing.T) (*httptest.Server, *GameServer) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	gs := NewGameServer(&stubProvider{questions: makeQuestions(3)}, logger)
	srv := httptest.NewServer(QuizWSHandler(logger, gs))
	t.Cleanup(srv.Close)
	return srv, gs
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialQuiz(t *testing.T, ctx context.Context, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.Dial(ctx, wsURL(srv), &websocket.DialOptions{
		Subprotocols: []string{"quiz"},
	})
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func send(t *testing.T, ctx context.Context, c *websocket.Conn, reqType string, seq int64, data interface{}) {
	t.Helper()
	msg := map[string]interface{}{"type": reqType, "seq": seq}
	if data != nil {
		msg["data"] = data
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal %s: %v", reqType, err)
	}
	if err := c.Write(ctx, websocket.MessageText, payload); err != nil {
		t.Fatalf("write %s: %v", reqType, err)
	}
}

func recv(t *testing.T, ctx context.Context, c *websocket.Conn) map[string]interface{} {
	t.Helper()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return m
}

// recvType skips unrelated events until a message of the wanted type arrives.
func recvType(t *testing.T, ctx context.Context, c *websocket.Conn, want string) map[string]interface{} {
	t.Helper()
	for i := 0; i < 10; i++ {
		m := recv(t, ctx, c)
		if m["type"] == want {
			return m
		}
	}
	t.Fatalf("never received a %q message", want)
	return nil
}

func TestLobbyLifecycleOverWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv, _ := newTestServer(t)

	c1 := dialQuiz(t, ctx, srv)
	welcome := recv(t, ctx, c1)
	if welcome["type"] != "welcome" {
		t.Fatalf("expected welcome, got %v", welcome["type"])
	}
	if pid, _ := welcome["playerId"].(string); pid == "" {
		t.Fatal("welcome carried no player id")
	}

	// empty registry
	send(t, ctx, c1, ReqGetLobbies, 1, nil)
	ack := recv(t, ctx, c1)
	if ack["type"] != "ack" || ack["for"] != ReqGetLobbies || ack["success"] != true {
		t.Fatalf("bad getLobbies ack: %v", ack)
	}
	if ack["lobbies"] != nil {
		t.Fatalf("expected no lobbies, got %v", ack["lobbies"])
	}

	// create a lobby with a defaulted name
	send(t, ctx, c1, ReqCreateLobby, 2, map[string]string{"playerName": "Ana"})
	ack = recv(t, ctx, c1)
	if ack["success"] != true {
		t.Fatalf("createLobby failed: %v", ack["message"])
	}
	lobbyID, _ := ack["lobbyId"].(string)
	if lobbyID == "" {
		t.Fatal("createLobby ack carried no lobby id")
	}
	details := ack["lobbyDetails"].(map[string]interface{})
	if details["name"] != "Ana's Game" {
		t.Fatalf("expected defaulted lobby name, got %v", details["name"])
	}

	// creator is told about the registry change too
	update := recvType(t, ctx, c1, "lobbiesListUpdate")
	if n := len(update["lobbies"].([]interface{})); n != 1 {
		t.Fatalf("expected 1 lobby in update, got %d", n)
	}

	// second player discovers and joins
	c2 := dialQuiz(t, ctx, srv)
	recvType(t, ctx, c2, "welcome")
	send(t, ctx, c2, ReqJoinLobby, 1, map[string]string{"lobbyId": lobbyID, "playerName": "Ben"})
	ack = recvType(t, ctx, c2, "ack")
	if ack["success"] != true {
		t.Fatalf("joinLobby failed: %v", ack["message"])
	}
	if ack["reconnected"] == true {
		t.Fatal("fresh join flagged as reconnect")
	}

	joined := recvType(t, ctx, c1, "playerJoined")
	player := joined["player"].(map[string]interface{})
	if player["name"] != "Ben" {
		t.Fatalf("expected Ben to join, got %v", player["name"])
	}

	// only the host may start
	send(t, ctx, c2, ReqStartGame, 2, map[string]string{"lobbyId": lobbyID})
	ack = recvType(t, ctx, c2, "ack")
	if ack["success"] != false {
		t.Fatal("non-host was allowed to start the game")
	}

	// gameStarted is broadcast to members before the ack is written
	send(t, ctx, c1, ReqStartGame, 3, map[string]string{"lobbyId": lobbyID})
	recvType(t, ctx, c1, "gameStarted")
	ack = recvType(t, ctx, c1, "ack")
	if ack["success"] != true {
		t.Fatalf("startGame failed: %v", ack["message"])
	}
	question := recvType(t, ctx, c2, "newQuestion")
	q := question["question"].(map[string]interface{})
	if _, hasKey := q["correctAnswerIndex"]; hasKey {
		t.Fatal("outbound question leaked the answer key")
	}

	// answer the live question; feedback and scores are enqueued on the
	// submitter's connection before the ack is written
	send(t, ctx, c2, ReqSubmitAnswer, 3, map[string]interface{}{
		"lobbyId":     lobbyID,
		"questionId":  q["id"],
		"answerIndex": 0,
	})
	feedback := recvType(t, ctx, c2, "answerFeedback")
	if feedback["correct"] != true {
		t.Fatalf("expected correct answer feedback, got %v", feedback)
	}
	ack = recvType(t, ctx, c2, "ack")
	if ack["success"] != true {
		t.Fatalf("submitAnswer failed: %v", ack["message"])
	}
}

func TestLeaveLobbyDeletesEmptyLobby(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv, gs := newTestServer(t)

	c1 := dialQuiz(t, ctx, srv)
	recvType(t, ctx, c1, "welcome")
	send(t, ctx, c1, ReqCreateLobby, 1, map[string]string{"playerName": "Ana", "lobbyName": "solo"})
	ack := recvType(t, ctx, c1, "ack")
	lobbyID := ack["lobbyId"].(string)

	send(t, ctx, c1, ReqLeaveLobby, 2, map[string]string{"lobbyId": lobbyID})
	ack = recvType(t, ctx, c1, "ack")
	if ack["success"] != true {
		t.Fatalf("leaveLobby failed: %v", ack["message"])
	}

	id, err := uuid.Parse(lobbyID)
	if err != nil {
		t.Fatalf("bad lobby id %q: %v", lobbyID, err)
	}
	if _, ok := gs.Registry.Get(id); ok {
		t.Fatal("empty lobby was not deleted")
	}
}

func TestUnknownRequestGetsFailureAck(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv, _ := newTestServer(t)

	c := dialQuiz(t, ctx, srv)
	recvType(t, ctx, c, "welcome")

	send(t, ctx, c, "teleport", 1, nil)
	ack := recvType(t, ctx, c, "ack")
	if ack["success"] != false || ack["for"] != "teleport" {
		t.Fatalf("expected failure ack for unknown type, got %v", ack)
	}
}

func TestRejectsMissingSubprotocol(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv, _ := newTestServer(t)

	c, _, err := websocket.Dial(ctx, wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer c.Close(websocket.StatusNormalClosure, "")

	_, _, err = c.Read(ctx)
	if err == nil {
		t.Fatal("expected the server to close the connection")
	}
	if code := websocket.CloseStatus(err); code != BadSubprotocolError {
		t.Fatalf("expected close code %d, got %d (%v)", BadSubprotocolError, code, err)
	}
}
