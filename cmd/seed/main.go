// cmd/seed/main.go
//
// Creates the questions table if needed, wipes it, and loads the starter
// question set. Run once against a fresh database:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/joho/godotenv/autoload"

	"github.com/quizwire/quizwire/internal/database"
	"github.com/quizwire/quizwire/internal/models"
)

var seedQuestions = []models.Question{
	{
		Text:               "What is the currency of Switzerland?",
		Options:            []string{"Euro", "Dollar", "Swiss Franc", "Pound"},
		CorrectAnswerIndex: 2,
		Category:           "General Knowledge",
		Difficulty:         "medium",
	},
	{
		Text:               "Which movie won the Academy Award for Best Picture in 2020?",
		Options:            []string{"1917", "Joker", "Parasite", "Once Upon a Time in Hollywood"},
		CorrectAnswerIndex: 2,
		Category:           "Movies",
		Difficulty:         "hard",
	},
	{
		Text:               "What gas do plants absorb from the atmosphere?",
		Options:            []string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Hydrogen"},
		CorrectAnswerIndex: 2,
		Category:           "Science & Nature",
		Difficulty:         "easy",
	},
	{
		Text:               "Who is known as the 'King of Pop'?",
		Options:            []string{"Elvis Presley", "Michael Jackson", "Prince", "James Brown"},
		CorrectAnswerIndex: 1,
		Category:           "Music",
		Difficulty:         "easy",
	},
	{
		Text:               "Which country is known as the Land of the Rising Sun?",
		Options:            []string{"China", "South Korea", "Japan", "Thailand"},
		CorrectAnswerIndex: 2,
		Category:           "General Knowledge",
		Difficulty:         "easy",
	},
	{
		Text:               "Mount Kilimanjaro is located in which country?",
		Options:            []string{"Kenya", "Tanzania", "Uganda", "Ethiopia"},
		CorrectAnswerIndex: 1,
		Category:           "General Knowledge",
		Difficulty:         "hard",
	},
	{
		Text:               "Which country hosted the 2016 Summer Olympics?",
		Options:            []string{"China", "Brazil", "United Kingdom", "Russia"},
		CorrectAnswerIndex: 1,
		Category:           "General Knowledge",
		Difficulty:         "easy",
	},
	{
		Text:               "What is the smallest prime number?",
		Options:            []string{"0", "1", "2", "3"},
		CorrectAnswerIndex: 2,
		Category:           "General Knowledge",
		Difficulty:         "easy",
	},
	{
		Text:               "Which famous scientist developed the theory of general relativity?",
		Options:            []string{"Isaac Newton", "Albert Einstein", "Nikola Tesla", "Galileo Galilei"},
		CorrectAnswerIndex: 1,
		Category:           "General Knowledge",
		Difficulty:         "medium",
	},
	{
		Text:               "Who wrote the play 'Romeo and Juliet'?",
		Options:            []string{"Christopher Marlowe", "William Shakespeare", "Ben Jonson", "John Donne"},
		CorrectAnswerIndex: 1,
		Category:           "General Knowledge",
		Difficulty:         "easy",
	},
	{
		Text:               "Who was the first emperor of the Roman Empire?",
		Options:            []string{"Julius Caesar", "Augustus", "Nero", "Caligula"},
		CorrectAnswerIndex: 1,
		Category:           "History",
		Difficulty:         "medium",
	},
	{
		Text:               "In which year did the French Revolution begin?",
		Options:            []string{"1787", "1789", "1791", "1793"},
		CorrectAnswerIndex: 1,
		Category:           "History",
		Difficulty:         "hard",
	},
	{
		Text:               "Which ancient civilization built Machu Picchu?",
		Options:            []string{"Maya", "Aztec", "Inca", "Olmec"},
		CorrectAnswerIndex: 2,
		Category:           "History",
		Difficulty:         "medium",
	},
	{
		Text:               "Which country won the FIFA World Cup in 2014?",
		Options:            []string{"Brazil", "Germany", "Argentina", "Spain"},
		CorrectAnswerIndex: 1,
		Category:           "Sports",
		Difficulty:         "easy",
	},
	{
		Text:               "How many players are there on a standard rugby union team?",
		Options:            []string{"11", "13", "15", "17"},
		CorrectAnswerIndex: 2,
		Category:           "Sports",
		Difficulty:         "medium",
	},
	{
		Text:               "Who holds the record for the most Grand Slam singles titles in men's tennis?",
		Options:            []string{"Roger Federer", "Rafael Nadal", "Novak Djokovic", "Pete Sampras"},
		CorrectAnswerIndex: 2,
		Category:           "Sports",
		Difficulty:         "hard",
	},
}

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	text TEXT NOT NULL,
	options TEXT[] NOT NULL,
	correct_answer_index INT NOT NULL,
	category TEXT NOT NULL,
	difficulty TEXT NOT NULL DEFAULT 'medium'
);
CREATE INDEX IF NOT EXISTS idx_questions_category ON questions (category);
`

func main() {
	database.ConnectDB()
	defer database.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := database.DB.Exec(ctx, schema); err != nil {
		log.Fatalf("failed to create questions table: %v", err)
	}

	log.Println("Removing old questions...")
	if _, err := database.DB.Exec(ctx, `DELETE FROM questions`); err != nil {
		log.Fatalf("failed to clear questions table: %v", err)
	}

	log.Println("Seeding new questions...")
	batch := &pgx.Batch{}
	for _, q := range seedQuestions {
		batch.Queue(`
			INSERT INTO questions (text, options, correct_answer_index, category, difficulty)
			VALUES ($1, $2, $3, $4, $5)
		`, q.Text, q.Options, q.CorrectAnswerIndex, q.Category, q.Difficulty)
	}
	if err := database.DB.SendBatch(ctx, batch).Close(); err != nil {
		log.Fatalf("failed to insert seed questions: %v", err)
	}

	log.Printf("Seeded %d questions.", len(seedQuestions))
}
