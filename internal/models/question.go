package models

import "github.com/google/uuid"

// Question is the persisted shape of a trivia question as returned by the
// question store. CorrectAnswerIndex must never leave the server while the
// question's round is still open; use Public() for anything client-bound.
type Question struct {
	ID                 uuid.UUID `json:"id"`
	Text               string    `json:"text"`
	Options            []string  `json:"options"`
	CorrectAnswerIndex int       `json:"correctAnswerIndex"`
	Category           string    `json:"category"`
	Difficulty         string    `json:"difficulty"`
}

// PublicQuestion is the client-facing projection with the answer key redacted.
type PublicQuestion struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Options    []string  `json:"options"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
}

// Public returns the redacted projection of q.
func (q *Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Text:       q.Text,
		Options:    q.Options,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}
