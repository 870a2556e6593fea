package game

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizwire/quizwire/internal/models"
)

// Status is the lobby lifecycle state. It only moves forward, with one
// exception: a start attempt that fails to load questions reverts the lobby
// from playing back to waiting.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Settings are fixed at lobby creation.
type Settings struct {
	Category     string `json:"category"`
	MaxPlayers   int    `json:"maxPlayers"`
	QuestionTime int    `json:"questionTime"` // seconds
	NumQuestions int    `json:"numQuestions"`
}

const (
	DefaultMaxPlayers   = 8
	DefaultQuestionTime = 15
	DefaultNumQuestions = 10
	DefaultCategory     = "General Knowledge"

	pointsPerCorrect = 10

	defaultStartDelay  = time.Second
	defaultRevealDelay = 3 * time.Second
	defaultGraceDelay  = 500 * time.Millisecond
)

// DefaultSettings fills a Settings with the standard game parameters for the
// given category ("" means DefaultCategory).
func DefaultSettings(category string) Settings {
	if category == "" {
		category = DefaultCategory
	}
	return Settings{
		Category:     category,
		MaxPlayers:   DefaultMaxPlayers,
		QuestionTime: DefaultQuestionTime,
		NumQuestions: DefaultNumQuestions,
	}
}

// Lobby is one game session: roster, settings, question sequence and round
// bookkeeping. All mutation goes through Mu; timer callbacks re-acquire it and
// validate the round token before touching anything, so a stale timer can
// never act on an advanced or deleted lobby.
type Lobby struct {
	ID       uuid.UUID
	Name     string
	HostID   uuid.UUID
	Settings Settings
	Status   Status

	// Players is the roster in join order. The host is always a member.
	Players []*models.Player

	// Questions is assigned at start and immutable during play.
	Questions            []*models.Question
	CurrentQuestionIndex int
	PlayerAnswers        map[int]map[uuid.UUID]int
	QuestionStartTime    time.Time

	conns map[uuid.UUID]*Conn

	roundTimer    *time.Timer
	advanceTimer  *time.Timer
	roundToken    int
	roundResolved bool

	// Pacing knobs, overridable in tests. StartDelay runs between gameStarted
	// and the first question, GraceDelay pads the per-question deadline, and
	// RevealDelay is the pause after roundEnd before the next question.
	StartDelay  time.Duration
	GraceDelay  time.Duration
	RevealDelay time.Duration

	// OnEmpty is invoked (outside the lock) after the last player leaves,
	// typically wired to Registry.Delete.
	OnEmpty func(id uuid.UUID)

	Mu sync.Mutex
}

// NewLobby builds a waiting lobby with the creating player as sole member and
// host. The registry is the intended caller; it wires OnEmpty before use.
func NewLobby(name string, host *models.Player, conn *Conn, settings Settings) *Lobby {
	host.IsHost = true
	host.Score = 0
	l := &Lobby{
		ID:                   uuid.New(),
		Name:                 name,
		HostID:               host.ID,
		Settings:             settings,
		Status:               StatusWaiting,
		Players:              []*models.Player{host},
		CurrentQuestionIndex: -1,
		PlayerAnswers:        make(map[int]map[uuid.UUID]int),
		conns:                map[uuid.UUID]*Conn{host.ID: conn},
		StartDelay:           defaultStartDelay,
		GraceDelay:           defaultGraceDelay,
		RevealDelay:          defaultRevealDelay,
	}
	return l
}

// AddPlayer admits a player while the lobby is waiting and not full. A player
// whose ID is already on the roster is re-attached to the broadcast group
// idempotently in any status (rejoin), signalled by a nil event. On a fresh
// join the returned event is ready for the caller to broadcast after acking.
func (l *Lobby) AddPlayer(p *models.Player, conn *Conn) (*PlayerJoinedEvent, error) {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if existing := l.playerUnsafe(p.ID); existing != nil {
		l.conns[p.ID] = conn
		return nil, nil
	}
	if l.Status != StatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(l.Players) >= l.Settings.MaxPlayers {
		return nil, ErrLobbyFull
	}

	p.Score = 0
	p.IsHost = false
	l.Players = append(l.Players, p)
	l.conns[p.ID] = conn

	return &PlayerJoinedEvent{
		Type:         EventPlayerJoined,
		Player:       *p,
		LobbyDetails: l.detailsUnsafe(),
	}, nil
}

// RemovePlayer drops a player on leave or disconnect. The last departure
// cancels any armed timers and fires OnEmpty; otherwise a departing host hands
// off to the earliest remaining player. Reports whether the player was a
// member.
func (l *Lobby) RemovePlayer(playerID uuid.UUID) bool {
	l.Mu.Lock()

	idx := -1
	for i, p := range l.Players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.Mu.Unlock()
		return false
	}
	departed := l.Players[idx]
	l.Players = append(l.Players[:idx], l.Players[idx+1:]...)
	delete(l.conns, playerID)

	if len(l.Players) == 0 {
		l.stopTimersUnsafe()
		onEmpty := l.OnEmpty
		id := l.ID
		l.Mu.Unlock()
		log.Printf("Lobby %s is empty, deleting", id)
		if onEmpty != nil {
			onEmpty(id)
		}
		return true
	}

	if l.HostID == playerID {
		next := l.Players[0]
		next.IsHost = true
		l.HostID = next.ID
		log.Printf("Lobby %s: host left, new host is %s", l.ID, next.Name)
		l.broadcastUnsafe(NewHostEvent{
			Type:         EventNewHost,
			Host:         HostRef{ID: next.ID, Name: next.Name},
			LobbyDetails: l.detailsUnsafe(),
		})
	}
	l.broadcastUnsafe(PlayerLeftEvent{
		Type:         EventPlayerLeft,
		PlayerID:     departed.ID,
		PlayerName:   departed.Name,
		LobbyDetails: l.detailsUnsafe(),
	})
	l.Mu.Unlock()
	return true
}

// Start runs the waiting -> playing transition. Guards: caller is host,
// status is waiting, roster non-empty. The question fetch happens outside the
// lock with the lobby in a provisional playing state (no joins, no answers);
// a fetch error or empty category reverts to waiting with no partial state.
// Proceeding with fewer questions than requested is intended behavior; only
// zero aborts.
func (l *Lobby) Start(ctx context.Context, callerID uuid.UUID, provider QuestionProvider) error {
	l.Mu.Lock()
	if l.HostID != callerID {
		l.Mu.Unlock()
		return ErrNotHost
	}
	if l.Status != StatusWaiting {
		l.Mu.Unlock()
		return ErrNotWaiting
	}
	if len(l.Players) < 1 {
		l.Mu.Unlock()
		return ErrNotEnoughPlayers
	}
	l.Status = StatusPlaying
	l.CurrentQuestionIndex = -1
	l.PlayerAnswers = make(map[int]map[uuid.UUID]int)
	for _, p := range l.Players {
		p.Score = 0
	}
	category := l.Settings.Category
	want := l.Settings.NumQuestions
	l.Mu.Unlock()

	qs, err := provider.Find(ctx, category, FetchLimit)

	l.Mu.Lock()
	defer l.Mu.Unlock()
	if len(l.Players) == 0 {
		// everyone left during the fetch; the lobby is already torn down
		l.Status = StatusWaiting
		return ErrNotEnoughPlayers
	}
	if err != nil {
		l.Status = StatusWaiting
		return fmt.Errorf("loading questions: %w", err)
	}
	if len(qs) == 0 {
		l.Status = StatusWaiting
		return fmt.Errorf("%w: %s", ErrNoQuestions, category)
	}

	l.Questions = sampleQuestions(qs, want)
	if len(l.Questions) < want {
		log.Printf("Lobby %s: only %d questions available for category %q, requested %d; proceeding",
			l.ID, len(l.Questions), category, want)
	}

	l.broadcastUnsafe(GameStartedEvent{
		Type:         EventGameStarted,
		LobbyDetails: l.detailsUnsafe(),
		Players:      l.rosterUnsafe(),
	})
	l.advanceTimer = time.AfterFunc(l.StartDelay, l.advanceRound)
	return nil
}

// SubmitAnswer records a player's choice for the active question, scores it,
// unicasts feedback to the submitter, broadcasts the refreshed scores, and
// short-circuits round resolution once the whole roster has answered.
func (l *Lobby) SubmitAnswer(playerID, questionID uuid.UUID, answerIndex int) error {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	if l.Status != StatusPlaying {
		return ErrGameNotActive
	}
	idx := l.CurrentQuestionIndex
	if idx < 0 || idx >= len(l.Questions) || l.roundResolved {
		return ErrGameNotActive
	}
	q := l.Questions[idx]
	if q.ID != questionID {
		return ErrQuestionMismatch
	}
	player := l.playerUnsafe(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}
	tally := l.PlayerAnswers[idx]
	if tally == nil {
		tally = make(map[uuid.UUID]int)
		l.PlayerAnswers[idx] = tally
	}
	if _, dup := tally[playerID]; dup {
		return ErrAlreadyAnswered
	}
	tally[playerID] = answerIndex

	earned := 0
	if answerIndex == q.CorrectAnswerIndex {
		earned = pointsPerCorrect
		player.Score += earned
	}
	if conn, ok := l.conns[playerID]; ok {
		conn.Write(AnswerFeedbackEvent{
			Type:               EventAnswerFeedback,
			Correct:            earned > 0,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			ScoreEarned:        earned,
			CurrentScore:       player.Score,
		})
	}
	l.broadcastUnsafe(ScoreUpdateEvent{Type: EventScoreUpdate, Players: l.scoresUnsafe()})

	if len(tally) >= len(l.Players) {
		l.resolveRoundUnsafe(l.roundToken)
	}
	return nil
}

// Broadcast sends an event to every connected member.
func (l *Lobby) Broadcast(ev interface{}) {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	l.broadcastUnsafe(ev)
}

// Details returns the member-facing snapshot.
func (l *Lobby) Details() LobbyDetails {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	return l.detailsUnsafe()
}

// Summary returns the discovery-listing projection.
func (l *Lobby) Summary() LobbySummary {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	hostName := "Unknown"
	if host := l.playerUnsafe(l.HostID); host != nil {
		hostName = host.Name
	}
	return LobbySummary{
		ID:          l.ID,
		Name:        l.Name,
		HostName:    hostName,
		PlayerCount: len(l.Players),
		MaxPlayers:  l.Settings.MaxPlayers,
		Category:    l.Settings.Category,
		Status:      l.Status,
	}
}

// broadcastUnsafe fans an event out to member connections. Assumes lock held;
// Conn.Write never blocks, so holding the lock here is safe.
func (l *Lobby) broadcastUnsafe(ev interface{}) {
	for _, conn := range l.conns {
		conn.Write(ev)
	}
}

func (l *Lobby) playerUnsafe(id uuid.UUID) *models.Player {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (l *Lobby) detailsUnsafe() LobbyDetails {
	host := HostRef{ID: l.HostID, Name: "Unknown"}
	if p := l.playerUnsafe(l.HostID); p != nil {
		host.Name = p.Name
	}
	return LobbyDetails{
		ID:                   l.ID,
		Name:                 l.Name,
		Host:                 host,
		Players:              l.rosterUnsafe(),
		Settings:             l.Settings,
		Status:               l.Status,
		CurrentQuestionIndex: l.CurrentQuestionIndex,
	}
}

// rosterUnsafe snapshots the roster as values so outbound events never share
// memory with live player records.
func (l *Lobby) rosterUnsafe() []models.Player {
	roster := make([]models.Player, 0, len(l.Players))
	for _, p := range l.Players {
		roster = append(roster, *p)
	}
	return roster
}

func (l *Lobby) scoresUnsafe() []models.PlayerScore {
	scores := make([]models.PlayerScore, 0, len(l.Players))
	for _, p := range l.Players {
		scores = append(scores, models.PlayerScore{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	return scores
}
