package game

import (
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// The round scheduler drives question-by-question progression. Each visited
// question index gets a fresh round token; both resolution paths (all players
// answered, timeout) funnel through resolveRoundUnsafe, which refuses stale
// tokens and re-entry, so a round resolves exactly once no matter how the
// timer races the short-circuit.

// advanceRound moves to the next question, or finishes the game when the
// sequence is exhausted. Runs from the start timer, the reveal-pause timer,
// or (first call) directly after Start.
func (l *Lobby) advanceRound() {
	l.Mu.Lock()
	defer l.Mu.Unlock()

	// An empty roster means the lobby is being torn down; a resolve callback
	// that slipped in before the timers were stopped must not reschedule.
	if l.Status != StatusPlaying || len(l.Players) == 0 {
		return
	}
	if l.roundTimer != nil {
		l.roundTimer.Stop()
		l.roundTimer = nil
	}

	l.CurrentQuestionIndex++
	l.roundToken++
	l.roundResolved = false

	idx := l.CurrentQuestionIndex
	if idx >= len(l.Questions) {
		l.finishUnsafe()
		return
	}

	l.PlayerAnswers[idx] = make(map[uuid.UUID]int)
	l.QuestionStartTime = time.Now()

	q := l.Questions[idx]
	l.broadcastUnsafe(NewQuestionEvent{
		Type:           EventNewQuestion,
		Question:       q.Public(),
		QuestionNumber: idx + 1,
		TotalQuestions: len(l.Questions),
		TimeLimit:      l.Settings.QuestionTime,
		Players:        l.rosterUnsafe(),
	})
	log.Printf("Lobby %s: sent question %d/%d", l.ID, idx+1, len(l.Questions))

	token := l.roundToken
	deadline := time.Duration(l.Settings.QuestionTime)*time.Second + l.GraceDelay
	l.roundTimer = time.AfterFunc(deadline, func() {
		l.resolveRound(token)
	})
}

// resolveRound is the timeout path into round resolution.
func (l *Lobby) resolveRound(token int) {
	l.Mu.Lock()
	defer l.Mu.Unlock()
	l.resolveRoundUnsafe(token)
}

// resolveRoundUnsafe reveals the correct answer and schedules the next
// advance after the reveal pause. Assumes lock held. A token that does not
// match the current round, or a round already resolved, is a stale or
// duplicate trigger and is ignored.
func (l *Lobby) resolveRoundUnsafe(token int) {
	if l.Status != StatusPlaying || token != l.roundToken || l.roundResolved {
		return
	}
	idx := l.CurrentQuestionIndex
	if idx < 0 || idx >= len(l.Questions) {
		return
	}
	l.roundResolved = true
	if l.roundTimer != nil {
		l.roundTimer.Stop()
		l.roundTimer = nil
	}

	l.broadcastUnsafe(RoundEndEvent{
		Type:               EventRoundEnd,
		CorrectAnswerIndex: l.Questions[idx].CorrectAnswerIndex,
	})
	log.Printf("Lobby %s: round %d ended, correct answer index %d", l.ID, idx+1, l.Questions[idx].CorrectAnswerIndex)

	// Pacing pause so clients can render feedback before the next round.
	l.advanceTimer = time.AfterFunc(l.RevealDelay, l.advanceRound)
}

// finishUnsafe runs the exhausted transition: playing -> finished, final
// ranking by score descending with ties keeping join order. Assumes lock held.
func (l *Lobby) finishUnsafe() {
	l.stopTimersUnsafe()
	l.Status = StatusFinished

	ranked := l.rosterUnsafe()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	l.broadcastUnsafe(GameOverEvent{
		Type:          EventGameOver,
		Players:       ranked,
		LobbySettings: l.Settings,
	})
	log.Printf("Lobby %s: game over, final scores sent", l.ID)
}

// stopTimersUnsafe cancels any outstanding scheduled work for this lobby.
// Every teardown or transition path calls this before the lobby can be
// deleted or advanced, so a cancelled timer never mutates stale state.
func (l *Lobby) stopTimersUnsafe() {
	if l.roundTimer != nil {
		l.roundTimer.Stop()
		l.roundTimer = nil
	}
	if l.advanceTimer != nil {
		l.advanceTimer.Stop()
		l.advanceTimer = nil
	}
}
