package cache

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Client stays nil when Redis is disabled; the analysis service then skips caching.
var Client *redis.Client

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

func InitRedis(ctx context.Context) {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("REDIS_ENABLED")), "false") {
		log.Println("REDIS_ENABLED=false, analysis cache disabled")
		return
	}

	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			log.Fatalf("failed to parse REDIS_URL: %v", err)
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		// the API still works without a cache
		log.Printf("Warning: failed to connect to Redis at %s, cache disabled: %v", opts.Addr, err)
		_ = client.Close()
		return
	}
	Client = client
	log.Println("Connected to Redis")
}
