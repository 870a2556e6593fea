// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/quizwire/quizwire/internal/cache"
	"github.com/quizwire/quizwire/internal/database"
	"github.com/quizwire/quizwire/internal/game"
	"github.com/quizwire/quizwire/internal/handlers"
	"github.com/quizwire/quizwire/internal/middleware"
)

func main() {
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	var provider game.QuestionProvider = database.NewQuestionStore(database.DB)
	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, serving questions uncached: %v", err)
	} else {
		provider = cache.NewCachedProvider(provider, cache.Rdb, 5*time.Minute)
	}

	srv := handlers.NewGameServer(provider, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.PingHandler)
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.QuizWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
