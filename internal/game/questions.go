package game

import (
	"context"
	"math/rand"

	"github.com/quizwire/quizwire/internal/models"
)

// FetchLimit caps how many records are pulled from the question store before
// sampling. Sampling happens here, so providers owe no ordering guarantee.
const FetchLimit = 50

// QuestionProvider supplies question records for a category. Implementations
// live outside the core: a pgx-backed store in internal/database and a Redis
// decorator in internal/cache.
type QuestionProvider interface {
	Find(ctx context.Context, category string, limit int) ([]*models.Question, error)
}

// sampleQuestions draws up to n questions uniformly without replacement.
// When fewer than n exist, all of them are returned; the caller decides
// whether that is acceptable.
func sampleQuestions(qs []*models.Question, n int) []*models.Question {
	out := make([]*models.Question, len(qs))
	copy(out, qs)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
