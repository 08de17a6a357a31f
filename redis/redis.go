package redis

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the rating-summary cache. The app runs without it:
// when the ping fails the client stays nil and summaries always hit the
// database.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := client.Ping(Ctx).Result(); err != nil {
		log.Printf("Warning: Redis unavailable at %s, rating summaries will not be cached: %v", addr, err)
		return
	}

	Client = client
	log.Println("✅ Connected to Redis")
}
