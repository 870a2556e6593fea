package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizwire/quizwire/internal/models"
)

// QuestionStore reads trivia questions out of Postgres. It satisfies
// game.QuestionProvider.
type QuestionStore struct {
	Pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{Pool: pool}
}

// Find returns up to limit questions in the given category, in table order.
// Callers shuffle and trim the result themselves.
func (s *QuestionStore) Find(ctx context.Context, category string, limit int) ([]*models.Question, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, text, options, correct_answer_index, category, difficulty
		FROM questions
		WHERE category = $1
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("query questions for category %q: %w", category, err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Options, &q.CorrectAnswerIndex, &q.Category, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		questions = append(questions, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate question rows: %w", err)
	}
	return questions, nil
}
