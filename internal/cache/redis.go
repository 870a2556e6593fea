// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizwire/quizwire/internal/game"
	"github.com/quizwire/quizwire/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// CachedProvider wraps a question provider with a Redis read-through cache.
// Question pools are small and change rarely, so a short TTL keeps game
// starts from hammering Postgres without serving stale data for long.
type CachedProvider struct {
	Inner  game.QuestionProvider
	Client *redis.Client
	TTL    time.Duration
}

func NewCachedProvider(inner game.QuestionProvider, client *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{Inner: inner, Client: client, TTL: ttl}
}

func (p *CachedProvider) Find(ctx context.Context, category string, limit int) ([]*models.Question, error) {
	key := fmt.Sprintf("questions:%s:%d", category, limit)

	data, err := p.Client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []*models.Question
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		log.Printf("discarding corrupt cache entry %s", key)
	} else if err != redis.Nil {
		log.Printf("redis get %s failed, falling back to source: %v", key, err)
	}

	questions, err := p.Inner.Find(ctx, category, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(questions); err == nil {
		if err := p.Client.Set(ctx, key, data, p.TTL).Err(); err != nil {
			log.Printf("redis set %s failed: %v", key, err)
		}
	}
	return questions, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
